package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes each report to <dir>/<id>.json.
type FileSink struct {
	dir string
}

// NewFileSink creates dir if needed and returns a sink writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Path returns the file a report with id is written to.
func (s *FileSink) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Write implements [Sink].
func (s *FileSink) Write(_ context.Context, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(r.ID), data, 0o644)
}

// Close implements [Sink].
func (s *FileSink) Close(context.Context) error { return nil }
