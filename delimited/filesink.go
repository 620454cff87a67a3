package delimited

import (
	"context"
	"fmt"
	"os"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

// FileSink writes rows to a log file and flushes after every row so the
// file can be tailed while a flight is in progress.
type FileSink struct {
	path   string
	file   *os.File
	writer *Writer
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Open(ctx context.Context, columns []string) error {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", s.path, err)
	}
	s.file = file
	s.writer = NewWriter(file)

	if err := s.writer.Write(columns); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	return s.writer.Flush()
}

func (s *FileSink) Write(ctx context.Context, row telemetrics.Row) error {
	if err := s.writer.WriteFloats(row.Values); err != nil {
		return err
	}
	return s.writer.Flush()
}

func (s *FileSink) Close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.writer.Flush()
	closeErr := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
