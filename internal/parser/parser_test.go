package parser

import (
	"testing"
)

func TestMatchLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Match
	}{
		// Errors and warnings
		{
			name:  "error with windows path",
			input: `1>C:\src\a.c(10,5): error CHK001: message text [proj.vcxproj]`,
			want: &Match{
				Prefix:     "1",
				Path:       `C:\src\a.c`,
				Line:       "10",
				Column:     "5",
				Severity:   SeverityError,
				AnalyzerID: "CHK001",
				Message:    "message text",
				Project:    "proj.vcxproj",
			},
		},
		{
			name:  "warning with compound prefix",
			input: `12:3>src\b.cpp(7,1): warning C4996: 'strcpy': This function may be unsafe. [C:\work\b.vcxproj]`,
			want: &Match{
				Prefix:     "12:3",
				Path:       `src\b.cpp`,
				Line:       "7",
				Column:     "1",
				Severity:   SeverityWarning,
				AnalyzerID: "C4996",
				Message:    "'strcpy': This function may be unsafe.",
				Project:    `C:\work\b.vcxproj`,
			},
		},
		{
			name:  "leading whitespace is stripped",
			input: "   \t2>a.c(1,2): error X1: boom [p.vcxproj]",
			want: &Match{
				Prefix:     "2",
				Path:       "a.c",
				Line:       "1",
				Column:     "2",
				Severity:   SeverityError,
				AnalyzerID: "X1",
				Message:    "boom",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "trailing whitespace before project kept in raw message",
			input: "1>a.c(3,4): warning W_2: spaced out  \t [p.vcxproj]",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "3",
				Column:     "4",
				Severity:   SeverityWarning,
				AnalyzerID: "W_2",
				Message:    "spaced out  \t",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "zero line and column",
			input: "1>a.c(0,0): error E0: zero [p.vcxproj]",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "0",
				Column:     "0",
				Severity:   SeverityError,
				AnalyzerID: "E0",
				Message:    "zero",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "trailing content after project is ignored",
			input: "1>a.c(1,1): error E1: msg [p.vcxproj] trailing junk",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "1",
				Column:     "1",
				Severity:   SeverityError,
				AnalyzerID: "E1",
				Message:    "msg",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "CRLF line ending",
			input: "1>a.c(1,1): error E1: msg [p.vcxproj]\r",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "1",
				Column:     "1",
				Severity:   SeverityError,
				AnalyzerID: "E1",
				Message:    "msg",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "brackets inside message",
			input: "1>a.c(1,1): warning W1: index [i] out of range [p.vcxproj]",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "1",
				Column:     "1",
				Severity:   SeverityWarning,
				AnalyzerID: "W1",
				Message:    "index [i] out of range",
				Project:    "p.vcxproj",
			},
		},

		{
			name:  "no-break space indent is stripped",
			input: "\u00a0\u00a01>a.c(1,1): error E1: msg [p.vcxproj]",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "1",
				Column:     "1",
				Severity:   SeverityError,
				AnalyzerID: "E1",
				Message:    "msg",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "ideographic space and separator indent is stripped",
			input: "\u3000\x1c\u20281>a.c(1,1): warning W1: msg [p.vcxproj]",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "1",
				Column:     "1",
				Severity:   SeverityWarning,
				AnalyzerID: "W1",
				Message:    "msg",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "unicode whitespace before project is not message text",
			input: "1>a.c(1,1): error E1: msg\u00a0\u3000 [p.vcxproj]",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "1",
				Column:     "1",
				Severity:   SeverityError,
				AnalyzerID: "E1",
				Message:    "msg",
				Project:    "p.vcxproj",
			},
		},
		{
			name:  "non-ASCII text in message",
			input: "1>a.c(1,1): warning W1: variable 'größe' unused [p.vcxproj]",
			want: &Match{
				Prefix:     "1",
				Path:       "a.c",
				Line:       "1",
				Column:     "1",
				Severity:   SeverityWarning,
				AnalyzerID: "W1",
				Message:    "variable 'größe' unused",
				Project:    "p.vcxproj",
			},
		},

		// Lines that carry no diagnostic
		{name: "empty line", input: ""},
		{name: "whitespace only", input: "   \t "},
		{name: "build banner", input: "Build started 1/15/2024 11:59:59 PM."},
		{name: "info severity", input: "1>a.c(1,1): info I1: note [p.vcxproj]"},
		{name: "capitalized severity", input: "1>a.c(1,1): Error E1: msg [p.vcxproj]"},
		{name: "missing prefix", input: "a.c(1,1): error E1: msg [p.vcxproj]"},
		{name: "missing project", input: "1>a.c(1,1): error E1: msg"},
		{name: "missing column", input: "1>a.c(10): error E1: msg [p.vcxproj]"},
		{name: "non-numeric line", input: "1>a.c(x,1): error E1: msg [p.vcxproj]"},
		{name: "signed line", input: "1>a.c(-1,1): error E1: msg [p.vcxproj]"},
		{name: "project with space", input: "1>a.c(1,1): error E1: msg [my proj.vcxproj]"},
		{name: "analyzer id with dash", input: "1>a.c(1,1): error E-1: msg [p.vcxproj]"},
		{name: "no-break space inside message", input: "1>a.c(1,1): error E1: a\u00a0b [p.vcxproj]"},
		{name: "ideographic space inside message", input: "1>a.c(1,1): error E1: a\u3000b [p.vcxproj]"},
		{name: "no-break space inside path", input: "1>my\u00a0a.c(1,1): error E1: msg [p.vcxproj]"},
		{name: "no-break space inside project", input: "1>a.c(1,1): error E1: msg [my\u00a0p.vcxproj]"},
		{name: "vertical tab inside message", input: "1>a.c(1,1): error E1: a\vb [p.vcxproj]"},
		{name: "line number overflows int", input: "1>a.c(99999999999999999999999,1): error E1: msg [p.vcxproj]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchLine(tt.input)
			if tt.want == nil {
				if ok || got != nil {
					t.Fatalf("MatchLine() = %+v, %v, want nil, false", got, ok)
				}
				return
			}
			if !ok {
				t.Fatalf("MatchLine() = nil, false, want %+v", tt.want)
			}
			if *got != *tt.want {
				t.Errorf("MatchLine() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestMatchLine_Numbers(t *testing.T) {
	m, ok := MatchLine(`1>C:\src\a.c(10,5): error CHK001: message text [proj.vcxproj]`)
	if !ok {
		t.Fatal("MatchLine() = false, want true")
	}
	if got := m.LineNumber(); got != 10 {
		t.Errorf("LineNumber() = %d, want 10", got)
	}
	if got := m.ColumnNumber(); got != 5 {
		t.Errorf("ColumnNumber() = %d, want 5", got)
	}
}

func TestPatternGroups(t *testing.T) {
	for name, idx := range map[string]int{
		groupPrefix:     idxPrefix,
		groupPath:       idxPath,
		groupLine:       idxLine,
		groupColumn:     idxColumn,
		groupSeverity:   idxSeverity,
		groupAnalyzerID: idxAnalyzerID,
		groupMessage:    idxMessage,
		groupProject:    idxProject,
	} {
		if idx <= 0 {
			t.Errorf("group %q not found in pattern", name)
		}
	}
}
