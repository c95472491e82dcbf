//go:build !windows

package safefile

import (
	"errors"
	"path/filepath"
	"syscall"
	"testing"
)

func TestOpenRegular_RejectsSpecialFiles(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "msbuild.pipe")
	if err := syscall.Mkfifo(fifo, 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{fifo, "/dev/null"} {
		if _, _, err := OpenRegular(path); !errors.Is(err, ErrNotRegularFile) {
			t.Errorf("OpenRegular(%q) error = %v, want ErrNotRegularFile", path, err)
		}
		if _, _, err := OpenLimited(path, 1024); !errors.Is(err, ErrNotRegularFile) {
			t.Errorf("OpenLimited(%q) error = %v, want ErrNotRegularFile", path, err)
		}
	}
}
