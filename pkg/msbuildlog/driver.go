package msbuildlog

import "github.com/msbuildlog/msbuildlog-go/internal/parser"

// Line is one position of a line stream: either a line of text or the end of input.
// A blank line in the log is Line{Text: ""} and is distinct from EndOfInput.
type Line struct {
	Text string
	EOF  bool
}

// EndOfInput marks an exhausted line stream.
var EndOfInput = Line{EOF: true}

// TextLine returns a Line holding text.
func TextLine(text string) Line {
	return Line{Text: text}
}

// First pulls the first line from it, or EndOfInput if it is empty.
func First(it LineIterator) Line {
	return advance(it)
}

func advance(it LineIterator) Line {
	text, ok := it.Next()
	if !ok {
		return EndOfInput
	}
	return Line{Text: text}
}

// Driver turns lines into diagnostics for one parse session.
//
// A Driver holds the session's invocation context (the path of the log being
// parsed) and its FileCache. The line grammar itself is shared, so Drivers are
// cheap to create per session. A Driver is not safe for concurrent use.
type Driver struct {
	invocation string
	cache      *FileCache
}

// NewDriver creates a Driver. Relative paths found in the log are resolved against
// the directory of invocationContext. A nil cache gets a fresh FileCache.
func NewDriver(invocationContext string, cache *FileCache) *Driver {
	if cache == nil {
		cache = NewFileCache()
	}
	return &Driver{invocation: invocationContext, cache: cache}
}

// InvocationContext returns the path used to anchor relative paths.
func (d *Driver) InvocationContext() string {
	return d.invocation
}

// Files returns the session's FileCache.
func (d *Driver) Files() *FileCache {
	return d.cache
}

// Step classifies current and advances it by exactly one line.
//
// Returns the diagnostics produced by current (zero or one) and the next line.
// The next line is EndOfInput once it is exhausted. If current is EndOfInput,
// Step returns no diagnostics and EndOfInput without touching it, so calling
// Step past the end is harmless.
func (d *Driver) Step(it LineIterator, current Line) ([]Diagnostic, Line) {
	if current.EOF {
		return nil, EndOfInput
	}

	var out []Diagnostic
	if diag, ok := d.Match(current.Text); ok {
		out = []Diagnostic{diag}
	}
	return out, advance(it)
}

// Match classifies a single line without touching any iterator.
func (d *Driver) Match(line string) (Diagnostic, bool) {
	m, ok := parser.MatchLine(line)
	if !ok {
		return Diagnostic{}, false
	}
	return build(m, ResolvePath(m.Path, d.invocation), d.cache), true
}
