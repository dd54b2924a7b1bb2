// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] that appends to the file at path,
// creating parent directories as needed. Used by the TUI, which owns the
// terminal and cannot share stderr.
func NewFileLogger(path string) (*log.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}

	return NewLogger(f), f, nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// VerifyAuthFile checks that the configured browser auth file is usable
// before any request carries it to the proxy. An empty path means the file
// was never configured ([ErrAuthFileUnset]); a path that does not exist
// maps to [ErrAuthFileMissing]; unreadable or non-JSON content maps to
// [ErrAuthInit].
func VerifyAuthFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: set auth_file in config.toml or YTMUSIC_AUTH_FILE", ErrAuthFileUnset)
	}

	data, err := VerifyAndReadFile(path)
	if err != nil {
		return err
	}

	if err := ValidateJSON(data); err != nil {
		return fmt.Errorf("%w: %s is not valid JSON", ErrAuthInit, path)
	}

	return nil
}

// VerifyAndReadFile stats and reads the file at path, wrapping failures in
// [ErrAuthFileMissing] and [ErrAuthInit] respectively.
func VerifyAndReadFile(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAuthFileMissing, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read %s", ErrAuthInit, path)
	}

	return data, nil
}

// ValidateJSON reports whether data parses as JSON.
func ValidateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
