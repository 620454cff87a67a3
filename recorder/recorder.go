package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

// Sink receives the header once and then every sampled row.
type Sink interface {
	Open(ctx context.Context, columns []string) error
	Write(ctx context.Context, row telemetrics.Row) error
	Close() error
}

// Source is satisfied by *telemetrics.Frame.
type Source interface {
	Columns() []string
	Update() (telemetrics.Row, error)
}

type Recorder struct {
	source     Source
	sinks      []Sink
	interval   time.Duration
	maxSamples int
	out        io.Writer
	logger     *slog.Logger
}

func NewRecorder(source Source, interval time.Duration, sinks ...Sink) *Recorder {
	return &Recorder{
		source:   source,
		sinks:    sinks,
		interval: interval,
		out:      os.Stdout,
		logger:   logi.GetLogger(),
	}
}

// WithMaxSamples stops the run after n rows; zero means unlimited.
func (r *Recorder) WithMaxSamples(n int) *Recorder {
	r.maxSamples = n
	return r
}

// WithOutput redirects the console messages.
func (r *Recorder) WithOutput(w io.Writer) *Recorder {
	r.out = w
	return r
}

// Run polls the source every interval until ctx is cancelled or the sample
// limit is reached. Any read or write failure ends the run.
func (r *Recorder) Run(ctx context.Context) (err error) {
	columns := r.source.Columns()
	r.logger.Info("Recorder starting", "interval", r.interval, "columns", len(columns), "sinks", len(r.sinks))

	opened := make([]Sink, 0, len(r.sinks))
	defer func() {
		var closeErrs []error
		for _, sink := range opened {
			if cerr := sink.Close(); cerr != nil {
				r.logger.Error("Error closing sink", "error", cerr)
				closeErrs = append(closeErrs, cerr)
			}
		}
		if err == nil && len(closeErrs) > 0 {
			err = fmt.Errorf("failed to close sinks: %w", errors.Join(closeErrs...))
		}
	}()

	for _, sink := range r.sinks {
		if err := sink.Open(ctx, columns); err != nil {
			return fmt.Errorf("failed to open sink: %w", err)
		}
		opened = append(opened, sink)
	}

	fmt.Fprintln(r.out, "Starting log. Please stop it by pressing Control-C")

	timer := time.NewTimer(0)
	defer timer.Stop()

	samples := 0
	for {
		select {
		case <-ctx.Done():
			r.stopped(samples)
			return nil
		case <-timer.C:
		}

		if err := r.sample(ctx); err != nil {
			// a write cut short by the interrupt is not a failure
			if ctx.Err() != nil {
				r.stopped(samples)
				return nil
			}
			r.logger.Error("Error sampling telemetry", "samples", samples, "error", err)
			return err
		}
		samples++

		if r.maxSamples > 0 && samples >= r.maxSamples {
			r.logger.Info("Recorder reached sample limit", "samples", samples)
			return nil
		}

		timer.Reset(r.interval)
	}
}

func (r *Recorder) stopped(samples int) {
	fmt.Fprintln(r.out, "\nThanks for logging. Bye!")
	r.logger.Info("Recorder stopped", "samples", samples)
}

func (r *Recorder) sample(ctx context.Context) error {
	row, err := r.source.Update()
	if err != nil {
		return fmt.Errorf("failed to read telemetry: %w", err)
	}

	for _, sink := range r.sinks {
		if err := sink.Write(ctx, row); err != nil {
			return fmt.Errorf("failed to write telemetry: %w", err)
		}
	}
	return nil
}
