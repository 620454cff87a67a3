// Package simulator fakes telemetry when no game is reachable: clock
// attributes report the wall clock, everything else is uniform noise.
package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// Bind implements telemetrics.Binder.
func (s *Simulator) Bind(category telemetrics.Category, attribute string) (telemetrics.Stream, error) {
	spec, err := telemetrics.Lookup(category, attribute)
	if err != nil {
		return nil, err
	}

	if spec.Kind == telemetrics.KindClock {
		return func() (telemetrics.Value, error) {
			return telemetrics.Scalar(float64(s.now().UnixNano()) / 1e9), nil
		}, nil
	}

	return func() (telemetrics.Value, error) {
		values := s.random(spec.Arity)
		if spec.Arity == 1 {
			return telemetrics.Scalar(values[0]), nil
		}
		return telemetrics.Tuple(values...), nil
	}, nil
}

func (s *Simulator) random(n int) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]float64, n)
	for i := range values {
		values[i] = s.rng.Float64()
	}
	return values
}
