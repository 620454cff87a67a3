// Package delimited reads and writes the telemetry log format: space
// separated fields, '|' as the quote character, quoting only when needed.
package delimited

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	DefaultComma = ' '
	DefaultQuote = '|'
)

type Writer struct {
	Comma rune
	Quote rune
	w     *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Comma: DefaultComma,
		Quote: DefaultQuote,
		w:     bufio.NewWriter(w),
	}
}

// Write writes one record followed by a newline.
func (w *Writer) Write(record []string) error {
	for i, field := range record {
		if i > 0 {
			if _, err := w.w.WriteRune(w.Comma); err != nil {
				return err
			}
		}
		if _, err := w.w.WriteString(w.quote(field)); err != nil {
			return err
		}
	}
	_, err := w.w.WriteString("\n")
	return err
}

func (w *Writer) quote(field string) string {
	if !strings.ContainsRune(field, w.Comma) && !strings.ContainsRune(field, w.Quote) &&
		!strings.ContainsAny(field, "\r\n") {
		return field
	}
	q := string(w.Quote)
	return q + strings.ReplaceAll(field, q, q+q) + q
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteFloats writes a row of numbers.
func (w *Writer) WriteFloats(values []float64) error {
	record := make([]string, len(values))
	for i, v := range values {
		record[i] = FormatFloat(v)
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("error writing row: %w", err)
	}
	return nil
}

// FormatFloat renders the shortest decimal that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
