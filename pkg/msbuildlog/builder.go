package msbuildlog

import (
	"strings"

	"github.com/msbuildlog/msbuildlog-go/internal/parser"
)

// build assembles a Diagnostic from matched fields and an already resolved path.
// The file handle comes from cache, so equal paths share one *File.
func build(m *parser.Match, resolvedPath string, cache *FileCache) Diagnostic {
	return Diagnostic{
		File:     cache.GetOrCreate(resolvedPath),
		Line:     m.LineNumber(),
		Column:   m.ColumnNumber(),
		Severity: Severity(m.Severity),
		RuleID:   m.AnalyzerID,
		Message:  strings.TrimSpace(m.Message),
		Project:  m.Project,
	}
}
