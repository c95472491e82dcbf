// Package tailer follows a growing build log line by line.
package tailer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// Config configures a Tailer.
type Config struct {
	// FromStart reads the file from the beginning instead of from its current end.
	FromStart bool

	// Poll uses polling instead of filesystem notifications.
	// Needed for network shares, where build agents often write their logs.
	Poll bool

	// ReOpen keeps following the path when the file is truncated or recreated.
	ReOpen bool
}

// DefaultConfig returns the default Config: follow from the end, with reopen.
func DefaultConfig() Config {
	return Config{ReOpen: true}
}

// Tailer delivers lines appended to a file.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New starts following path. Lines are delivered until ctx is cancelled or Stop is called,
// after which both channels are closed.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	tcfg := tail.Config{
		Follow:    true,
		ReOpen:    cfg.ReOpen,
		Poll:      cfg.Poll,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	}
	if !cfg.FromStart {
		tcfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, tcfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

// Lines returns the channel of lines, with trailing CR removed.
func (tl *Tailer) Lines() <-chan string {
	return tl.lines
}

// Errors returns the channel of read errors.
func (tl *Tailer) Errors() <-chan error {
	return tl.errs
}

// Stop stops following and waits for the delivery goroutine to exit.
// Safe to call multiple times.
func (tl *Tailer) Stop() error {
	var err error
	tl.once.Do(func() {
		tl.cancel()
		err = tl.t.Stop()
		tl.t.Cleanup()
		<-tl.done
	})
	return err
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				if err := tl.t.Err(); err != nil && !errors.Is(err, context.Canceled) {
					select {
					case tl.errs <- err:
					default:
					}
				}
				return
			}
			if line.Err != nil {
				select {
				case tl.errs <- line.Err:
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case tl.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}
