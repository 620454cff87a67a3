package telemetrics

import "time"

// Value is a single reading of a remote attribute. Scalars hold one
// component; tuples (vectors, quaternions, PID gains) hold several.
type Value struct {
	Components []float64
	Tuple      bool
}

func Scalar(v float64) Value {
	return Value{Components: []float64{v}}
}

func Tuple(vs ...float64) Value {
	return Value{Components: vs, Tuple: true}
}

func (v Value) Len() int {
	return len(v.Components)
}

// Stream returns the live value of one attribute each time it is called.
type Stream func() (Value, error)

// Binder resolves a category/attribute pair into a Stream.
type Binder interface {
	Bind(category Category, attribute string) (Stream, error)
}

// Row is one flattened sample of a Frame.
type Row struct {
	CapturedAt time.Time
	Values     []float64
}
