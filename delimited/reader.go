package delimited

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrUnterminatedQuote = errors.New("unterminated quoted field")

type Reader struct {
	Comma rune
	Quote rune
	r     *bufio.Reader
	line  int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		Comma: DefaultComma,
		Quote: DefaultQuote,
		r:     bufio.NewReader(r),
	}
}

// Read returns the next record, or io.EOF.
func (r *Reader) Read() ([]string, error) {
	for {
		record, err := r.readRecord()
		if err != nil {
			return nil, err
		}
		// blank lines carry no record
		if len(record) == 1 && record[0] == "" {
			continue
		}
		return record, nil
	}
}

func (r *Reader) readRecord() ([]string, error) {
	var (
		record  []string
		field   strings.Builder
		quoted  bool
		started bool
	)

	for {
		c, _, err := r.r.ReadRune()
		if err == io.EOF {
			if quoted {
				return nil, fmt.Errorf("line %d: %w", r.line+1, ErrUnterminatedQuote)
			}
			if !started {
				return nil, io.EOF
			}
			return append(record, field.String()), nil
		}
		if err != nil {
			return nil, err
		}
		started = true

		switch {
		case quoted && c == r.Quote:
			next, _, err := r.r.ReadRune()
			if err == nil && next == r.Quote {
				field.WriteRune(r.Quote)
				continue
			}
			if err == nil {
				_ = r.r.UnreadRune()
			}
			quoted = false
		case quoted:
			if c == '\n' {
				r.line++
			}
			field.WriteRune(c)
		case c == r.Quote && field.Len() == 0:
			quoted = true
		case c == r.Comma:
			record = append(record, field.String())
			field.Reset()
		case c == '\r':
		case c == '\n':
			r.line++
			return append(record, field.String()), nil
		default:
			field.WriteRune(c)
		}
	}
}

// Log is a parsed telemetry log.
type Log struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the values of a named column.
func (l *Log) Column(name string) ([]float64, bool) {
	for i, column := range l.Columns {
		if column == name {
			values := make([]float64, len(l.Rows))
			for j, row := range l.Rows {
				values[j] = row[i]
			}
			return values, true
		}
	}
	return nil, false
}

// ReadLog parses a header line followed by numeric rows.
func ReadLog(in io.Reader) (*Log, error) {
	r := NewReader(in)

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("empty log")
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	l := &Log{Columns: header}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", len(l.Rows)+1, len(header), len(record))
		}

		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s: %w", len(l.Rows)+1, header[i], err)
			}
			row[i] = v
		}
		l.Rows = append(l.Rows, row)
	}

	return l, nil
}
