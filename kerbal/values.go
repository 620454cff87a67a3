package kerbal

import (
	"math"

	"github.com/atburke/krpc-go/types"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

// number covers every numeric return type of the kRPC services.
type number interface {
	~float32 | ~float64 | ~int32 | ~uint32
}

func widen[T number](v T, err error) (float64, error) {
	if err != nil {
		return math.NaN(), err
	}
	return float64(v), nil
}

func scalar[T number](get func() (T, error)) telemetrics.Stream {
	return func() (telemetrics.Value, error) {
		v, err := widen(get())
		if err != nil {
			return telemetrics.Value{}, err
		}
		return telemetrics.Scalar(v), nil
	}
}

func triple[T number](get func() (types.Tuple3[T, T, T], error)) telemetrics.Stream {
	return func() (telemetrics.Value, error) {
		v, err := get()
		if err != nil {
			return telemetrics.Value{}, err
		}
		return telemetrics.Tuple(float64(v.A), float64(v.B), float64(v.C)), nil
	}
}

func quad[T number](get func() (types.Tuple4[T, T, T, T], error)) telemetrics.Stream {
	return func() (telemetrics.Value, error) {
		v, err := get()
		if err != nil {
			return telemetrics.Value{}, err
		}
		return telemetrics.Tuple(float64(v.A), float64(v.B), float64(v.C), float64(v.D)), nil
	}
}

func list[T number](get func() ([]T, error)) telemetrics.Stream {
	return func() (telemetrics.Value, error) {
		vs, err := get()
		if err != nil {
			return telemetrics.Value{}, err
		}
		out := make([]float64, len(vs))
		for i, v := range vs {
			out[i] = float64(v)
		}
		return telemetrics.Tuple(out...), nil
	}
}

// optional reads a value from an object that may not exist (a maneuver
// node). A missing object reads as NaN.
func optional[O any, T number](find func() (O, bool, error), get func(O) (T, error)) telemetrics.Stream {
	return func() (telemetrics.Value, error) {
		obj, ok, err := find()
		if err != nil {
			return telemetrics.Value{}, err
		}
		if !ok {
			return telemetrics.Scalar(math.NaN()), nil
		}
		v, err := widen(get(obj))
		if err != nil {
			return telemetrics.Value{}, err
		}
		return telemetrics.Scalar(v), nil
	}
}
