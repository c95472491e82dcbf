package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/msbuildlog/msbuildlog-go/internal/config"
	"github.com/msbuildlog/msbuildlog-go/pkg/msbuildlog"
)

// record is the serialized form of a diagnostic.
type record struct {
	Log      string `json:"log" msgpack:"log"`
	File     string `json:"file" msgpack:"file"`
	FileID   uint32 `json:"file_id" msgpack:"file_id"`
	Line     int    `json:"line" msgpack:"line"`
	Column   int    `json:"column" msgpack:"column"`
	Severity string `json:"severity" msgpack:"severity"`
	RuleID   string `json:"rule_id" msgpack:"rule_id"`
	Message  string `json:"message" msgpack:"message"`
	Project  string `json:"project" msgpack:"project"`
}

// newRecord converts a diagnostic found in the log file logPath.
func newRecord(logPath string, d msbuildlog.Diagnostic) record {
	r := record{
		Log:      logPath,
		Line:     d.Line,
		Column:   d.Column,
		Severity: d.Severity.String(),
		RuleID:   d.RuleID,
		Message:  d.Message,
		Project:  d.Project,
	}
	if d.File != nil {
		r.File = d.File.Path
		r.FileID = uint32(d.File.ID)
	}
	return r
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	ruleColor    = color.New(color.Faint)
)

// OutputRecord writes a record in the specified format to the writer.
func OutputRecord(format string, r record, out io.Writer) error {
	switch format {
	case config.FormatJSONL:
		return OutputJSON(r, out)
	case config.FormatPretty:
		return OutputPretty(r, out)
	case config.FormatMsgpack:
		return OutputMsgpack(r, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes a record as JSON Lines format.
func OutputJSON(r record, out io.Writer) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputMsgpack appends a record to a MessagePack stream.
func OutputMsgpack(r record, out io.Writer) error {
	return msgpack.NewEncoder(out).Encode(r)
}

// OutputPretty writes a record in MSBuild's own layout, with the severity colored.
func OutputPretty(r record, out io.Writer) error {
	sev := r.Severity
	switch msbuildlog.Severity(r.Severity) {
	case msbuildlog.SeverityError:
		sev = errorColor.Sprint(r.Severity)
	case msbuildlog.SeverityWarning:
		sev = warningColor.Sprint(r.Severity)
	}
	_, err := fmt.Fprintf(out, "%s(%d,%d): %s %s: %s %s\n",
		r.File, r.Line, r.Column, sev, ruleColor.Sprint(r.RuleID), r.Message, ruleColor.Sprintf("[%s]", r.Project))
	return err
}

// summary counts printed diagnostics by severity.
type summary struct {
	errors   int
	warnings int
	files    int
}

func (s *summary) add(d msbuildlog.Diagnostic) {
	switch d.Severity {
	case msbuildlog.SeverityError:
		s.errors++
	case msbuildlog.SeverityWarning:
		s.warnings++
	}
}

func (s summary) String() string {
	return fmt.Sprintf("%s, %s in %s",
		plural(s.errors, "error"), plural(s.warnings, "warning"), plural(s.files, "log file"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
