package telemetrics

import (
	"fmt"
	"time"
)

type HeaderStyle int

const (
	// HeaderShort labels columns with the attribute name only.
	HeaderShort HeaderStyle = iota
	// HeaderQualified prefixes every column with its category.
	HeaderQualified
)

// Frame is an ordered set of loggables sampled together into one row.
type Frame struct {
	loggables []*Loggable
	columns   []string
	now       func() time.Time
}

func NewFrame(items Items, style HeaderStyle, binder Binder) (*Frame, error) {
	if err := items.Validate(); err != nil {
		return nil, err
	}

	f := &Frame{now: time.Now}
	seen := map[string]string{}

	for _, item := range items {
		name := ""
		if style == HeaderQualified {
			name = string(item.Category)
		}

		l, err := NewLoggable(name, item.Category, item.Attributes, binder)
		if err != nil {
			return nil, err
		}

		for _, column := range l.Columns() {
			if owner, dup := seen[column]; dup {
				return nil, fmt.Errorf("duplicate column %q from %s and %s, use the qualified header",
					column, owner, item.Category)
			}
			seen[column] = string(item.Category)
			f.columns = append(f.columns, column)
		}
		f.loggables = append(f.loggables, l)
	}

	return f, nil
}

func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Update samples every loggable once.
func (f *Frame) Update() (Row, error) {
	row := Row{
		CapturedAt: f.now(),
		Values:     make([]float64, 0, len(f.columns)),
	}
	for _, l := range f.loggables {
		line, err := l.Update()
		if err != nil {
			return Row{}, err
		}
		row.Values = append(row.Values, line...)
	}
	if len(row.Values) != len(f.columns) {
		return Row{}, fmt.Errorf("%w: got %d values for %d columns", ErrColumnMismatch, len(row.Values), len(f.columns))
	}
	return row, nil
}
