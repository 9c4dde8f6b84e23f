// Package changelog appends audit lines whenever an output file is created
// or updated, and answers per-path history lookups from an in-memory index.
package changelog

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimeFormat is the timestamp layout used in log lines.
const TimeFormat = "2006-01-02 15:04:05"

const separator = " | "

// Logger writes and queries the append-only change log. It is not safe for
// concurrent use; the application appends sequentially from a single process.
type Logger struct {
	path   string
	now    func() time.Time
	logger *slog.Logger

	// index maps file path -> log lines, built once from the file and kept
	// current by subsequent appends.
	index   map[string][]string
	indexed bool
}

// New returns a change logger writing to path.
func New(path string, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{path: path, now: time.Now, logger: logger}
}

// WithClock overrides the timestamp source, for tests.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// LogChange appends one `<timestamp> | <path> | <description>` line.
func (l *Logger) LogChange(filePath, description string) error {
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open change log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("close change log", "error", cerr)
		}
	}()

	line := l.now().Format(TimeFormat) + separator + filePath + separator + description
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append change log: %w", err)
	}

	if l.indexed {
		l.index[filePath] = append(l.index[filePath], line)
	}
	return nil
}

// GetChangeHistory returns all log lines recorded for filePath, oldest
// first. The first call loads the index from disk; later calls are served
// from memory.
func (l *Logger) GetChangeHistory(filePath string) ([]string, error) {
	if !l.indexed {
		if err := l.buildIndex(); err != nil {
			return nil, err
		}
	}
	return l.index[filePath], nil
}

func (l *Logger) buildIndex() error {
	l.index = make(map[string][]string)
	l.indexed = true

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open change log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("close change log", "error", cerr)
		}
	}()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		// <timestamp> | <path> | <description>; the description may itself
		// contain the separator, so split at most three ways.
		parts := strings.SplitN(line, separator, 3)
		if len(parts) < 3 {
			l.logger.Warn("skipping malformed change log line", "line", line)
			continue
		}
		l.index[parts[1]] = append(l.index[parts[1]], line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan change log: %w", err)
	}
	return nil
}
