package msbuildlog

import (
	"bufio"
	"io"
	"strings"
)

// DefaultMaxLineBytes is the default maximum length of a single line read by ReaderIterator.
const DefaultMaxLineBytes = 1024 * 1024 // 1 MB

// LineIterator supplies log lines one at a time.
//
// Next returns the next line and true, or "" and false once the input is exhausted.
// After returning false, Next must keep returning false.
type LineIterator interface {
	Next() (string, bool)
}

// LineIteratorFunc is an adapter to allow ordinary functions to be used as LineIterators.
type LineIteratorFunc func() (string, bool)

// Next implements the LineIterator interface.
func (f LineIteratorFunc) Next() (string, bool) {
	return f()
}

// SliceIterator iterates over a pre-split sequence of lines.
type SliceIterator struct {
	lines []string
	pos   int
}

// NewSliceIterator creates a SliceIterator over lines.
func NewSliceIterator(lines []string) *SliceIterator {
	return &SliceIterator{lines: lines}
}

// NewStringIterator splits s on newlines and iterates over the result.
// A trailing newline does not produce an extra empty line.
func NewStringIterator(s string) *SliceIterator {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return NewSliceIterator(nil)
	}
	return NewSliceIterator(strings.Split(s, "\n"))
}

// Next implements the LineIterator interface.
func (it *SliceIterator) Next() (string, bool) {
	if it.pos >= len(it.lines) {
		return "", false
	}
	line := it.lines[it.pos]
	it.pos++
	return line, true
}

// Pos returns the number of lines consumed so far.
func (it *SliceIterator) Pos() int {
	return it.pos
}

// ReaderIterator reads lines from an io.Reader.
// Trailing CR characters are stripped from each line.
type ReaderIterator struct {
	sc   *bufio.Scanner
	err  error
	done bool
}

// NewReaderIterator creates a ReaderIterator. maxLineBytes <= 0 uses DefaultMaxLineBytes.
func NewReaderIterator(r io.Reader, maxLineBytes int) *ReaderIterator {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	sc := bufio.NewScanner(r)
	// The scanner's limit is the larger of cap(buf) and max, so cap must not exceed max
	sc.Buffer(make([]byte, 0, min(64*1024, maxLineBytes)), maxLineBytes)
	return &ReaderIterator{sc: sc}
}

// Next implements the LineIterator interface.
func (it *ReaderIterator) Next() (string, bool) {
	if it.done {
		return "", false
	}
	if !it.sc.Scan() {
		it.done = true
		it.err = it.sc.Err()
		return "", false
	}
	return strings.TrimSuffix(it.sc.Text(), "\r"), true
}

// Err returns the first read error, if any. Check it after Next returns false.
func (it *ReaderIterator) Err() error {
	return it.err
}

// ChanIterator receives lines from a channel. Next blocks until a line arrives
// or the channel is closed.
type ChanIterator struct {
	ch   <-chan string
	done bool
}

// NewChanIterator creates a ChanIterator over ch.
func NewChanIterator(ch <-chan string) *ChanIterator {
	return &ChanIterator{ch: ch}
}

// Next implements the LineIterator interface.
func (it *ChanIterator) Next() (string, bool) {
	if it.done {
		return "", false
	}
	line, ok := <-it.ch
	if !ok {
		it.done = true
		return "", false
	}
	return line, true
}

var (
	_ LineIterator = (*SliceIterator)(nil)
	_ LineIterator = (*ReaderIterator)(nil)
	_ LineIterator = (*ChanIterator)(nil)
	_ LineIterator = LineIteratorFunc(nil)
)
