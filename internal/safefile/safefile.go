// Package safefile provides hardened access to build log files.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNotRegularFile is returned when a path is not a regular file.
	// This includes symlinks, FIFOs, devices, sockets, and directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrFileTooLarge is returned when a file exceeds the allowed size.
	ErrFileTooLarge = errors.New("file too large")
)

// OpenRegular opens a file and verifies it is a regular file.
//
// The function:
//  1. Uses os.Lstat() to check the path without following symlinks
//  2. Opens the file
//  3. Stats the file descriptor to verify it is still a regular file
//
// The caller must close the returned file when done.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	// Catches the file being replaced between Lstat and Open
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}

// OpenLimited opens a regular file no larger than maxBytes and returns a reader
// that stops with ErrFileTooLarge if the file grows past maxBytes while being read.
// The caller must close the returned file.
func OpenLimited(path string, maxBytes int64) (*os.File, io.Reader, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, nil, err
	}
	if info.Size() > maxBytes {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), maxBytes)
	}
	return f, &limitedReader{r: f, remaining: maxBytes}, nil
}

// limitedReader is io.LimitReader that fails instead of returning EOF at the limit.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// Probe for one more byte to tell "exactly at limit" from "over limit"
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, ErrFileTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

// SanitizePathError removes the path from an *os.PathError so error messages
// do not expose file system layout.
func SanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}
