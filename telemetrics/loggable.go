package telemetrics

import (
	"errors"
	"fmt"
	"strings"
)

var ErrColumnMismatch = errors.New("row width does not match columns")

// Loggable is a remote object whose attributes are polled together. Each
// attribute is probed once at setup so tuple values can be expanded into
// one column per component.
type Loggable struct {
	name     string
	category Category
	columns  []string
	streams  []Stream
	widths   []int
}

// NewLoggable binds every attribute of a category. An empty name gives
// bare attribute names as column labels.
func NewLoggable(name string, category Category, attributes []string, binder Binder) (*Loggable, error) {
	l := &Loggable{
		name:     name,
		category: category,
	}

	for _, attribute := range attributes {
		if _, err := Lookup(category, attribute); err != nil {
			return nil, err
		}

		stream, err := binder.Bind(category, attribute)
		if err != nil {
			return nil, fmt.Errorf("failed to bind %s.%s: %w", category, attribute, err)
		}

		probe, err := stream()
		if err != nil {
			return nil, fmt.Errorf("failed to probe %s.%s: %w", category, attribute, err)
		}

		l.columns = append(l.columns, Labels(l.label(attribute), probe)...)
		l.streams = append(l.streams, stream)
		l.widths = append(l.widths, probe.Len())
	}

	return l, nil
}

func (l *Loggable) label(attribute string) string {
	attribute = strings.ReplaceAll(attribute, ".", "_")
	if l.name == "" {
		return attribute
	}
	return l.name + "_" + attribute
}

// Labels expands a base label for a probed value: scalars keep the base,
// tuples get one indexed label per component.
func Labels(base string, v Value) []string {
	if !v.Tuple {
		return []string{base}
	}
	labels := make([]string, v.Len())
	for i := range labels {
		labels[i] = fmt.Sprintf("%s_%d", base, i)
	}
	return labels
}

func (l *Loggable) Columns() []string {
	return append([]string(nil), l.columns...)
}

// Update polls every stream once and returns the flattened values.
func (l *Loggable) Update() ([]float64, error) {
	line := make([]float64, 0, len(l.columns))
	for i, stream := range l.streams {
		v, err := stream()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s stream %d: %w", l.category, i, err)
		}
		if v.Len() != l.widths[i] {
			return nil, fmt.Errorf("%w: %s stream %d returned %d values, expected %d",
				ErrColumnMismatch, l.category, i, v.Len(), l.widths[i])
		}
		line = append(line, v.Components...)
	}

	if len(line) != len(l.columns) {
		return nil, fmt.Errorf("%w: got %d values for %d columns", ErrColumnMismatch, len(line), len(l.columns))
	}
	return line, nil
}
