// Package watch follows a growing log file and classifies each appended
// line against the rule classifier, emitting a match event for every
// line that hits a known failure signature.
//
// It implements "tail -f" like behavior with log rotation handling; the
// heavy AI pipeline is deliberately not involved here, only the cheap
// deterministic rules.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"logtriage/internal/incident"
	"logtriage/internal/rules"
)

// Match is one classified log line.
type Match struct {
	Line     string
	RuleName string
	Record   incident.Record
}

// Options configures the watcher behavior.
type Options struct {
	FilePath     string            // Path to the log file
	FollowRotate bool              // Whether to follow through log rotations
	MinSeverity  incident.Severity // Only emit matches at or above this severity
	OnMatch      func(Match) error // Called for each matching line
	Classifier   *rules.Classifier // Rule classifier; defaults to the built-in table
}

// Watcher tails a log file and classifies appended lines.
type Watcher struct {
	opts    Options
	rules   *rules.Classifier
	file    *os.File
	offset  int64
	watcher *fsnotify.Watcher
}

// New creates a Watcher with the given options.
func New(opts Options) *Watcher {
	classifier := opts.Classifier
	if classifier == nil {
		classifier = rules.New()
	}
	return &Watcher{opts: opts, rules: classifier}
}

// Run starts watching. It blocks until the context is cancelled or an
// error occurs. Only lines appended after Run starts are classified.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.openFile(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer w.close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.watcher = watcher
	defer w.watcher.Close()

	if err := w.watcher.Add(w.opts.FilePath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.opts.FilePath, err)
	}

	return w.watch(ctx)
}

// openFile opens the log file and positions at the end.
func (w *Watcher) openFile() error {
	f, err := os.Open(w.opts.FilePath)
	if err != nil {
		return err
	}
	w.file = f

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	w.offset = stat.Size()
	return nil
}

// watch processes filesystem events until cancellation.
func (w *Watcher) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if err := w.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return w.classifyNewContent()

	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		return w.handleRotation(ctx)
	}

	return nil
}

// classifyNewContent reads lines appended since the last offset and runs
// each through the rule classifier.
func (w *Watcher) classifyNewContent() error {
	if _, err := w.file.Seek(w.offset, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(w.file)
	const maxScanTokenSize = 1024 * 1024
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := w.classifyLine(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	var err error
	w.offset, err = w.file.Seek(0, io.SeekCurrent)
	return err
}

// classifyLine emits a Match when the line hits a named rule at or above
// the severity threshold. Lines that only reach the generic fallbacks
// are ignored; live mode is about known signatures, not noise.
func (w *Watcher) classifyLine(line string) error {
	name := w.rules.MatchName(line)
	if name == "" {
		return nil
	}

	record := w.rules.Classify(line)
	if record.Severity < w.opts.MinSeverity {
		return nil
	}

	if w.opts.OnMatch == nil {
		return nil
	}
	return w.opts.OnMatch(Match{Line: line, RuleName: name, Record: record})
}

// handleRotation handles log file rotation.
func (w *Watcher) handleRotation(ctx context.Context) error {
	if !w.opts.FollowRotate {
		return fmt.Errorf("file rotated")
	}

	if w.file != nil {
		w.file.Close()
		w.file = nil
	}

	// Wait for the new file to appear.
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			f, err := os.Open(w.opts.FilePath)
			if err != nil {
				continue
			}
			w.file = f
			w.offset = 0

			if err := w.watcher.Add(w.opts.FilePath); err != nil {
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}
			return nil
		}
	}
}

// close releases file resources. The fsnotify watcher is closed by Run.
func (w *Watcher) close() {
	if w.file != nil {
		w.file.Close()
	}
}
