// Package msbuildlog extracts structured diagnostics from MSBuild build output.
//
// MSBuild prints compiler and analyzer findings as single lines of the form
//
//	1>C:\src\main.c(10,5): error C2065: 'x': undeclared identifier [C:\src\app.vcxproj]
//
// This package recognizes such lines and turns them into [Diagnostic] values
// holding the file, line, column, severity, rule id and message. Every other
// line is skipped. Only the "error" and "warning" severities are recognized.
//
// # Basic Usage
//
// To parse a build log file:
//
//	diags, err := msbuildlog.ParseFileAll(ctx, "build.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range diags {
//	    fmt.Printf("%s(%d,%d): %s %s: %s\n", d.Path(), d.Line, d.Column, d.Severity, d.RuleID, d.Message)
//	}
//
// Relative source paths in the log are resolved against the directory of the
// log file itself (the analyzer result), see [ResolvePath].
//
// # Sessions and File Identity
//
// One parse of one log is a session. Each session has a [FileCache] that hands
// out one *[File] per normalized path, so two diagnostics about the same file
// share the same pointer. A [Parser] owns its cache unless [WithFileCache]
// supplies one. [ParseDir] parses each file in a session of its own.
//
// # Driving the Parse Loop
//
// Callers that own their line source can drive parsing one line at a time with
// [Driver.Step], which classifies the current line, advances the iterator by
// exactly one line and returns the next [Line]. The end of input is the
// explicit [EndOfInput] value, so blank lines in a log never stop the loop:
//
//	drv := msbuildlog.NewDriver("build.log", nil)
//	it := msbuildlog.NewSliceIterator(lines)
//	for line := msbuildlog.First(it); !line.EOF; {
//	    var diags []msbuildlog.Diagnostic
//	    diags, line = drv.Step(it, line)
//	    out = append(out, diags...)
//	}
//
// # Filtering
//
// [WithSeverities], [WithIncludeRules] and [WithExcludeRules] restrict the
// diagnostics returned by [Parser] and the file helpers.
package msbuildlog
