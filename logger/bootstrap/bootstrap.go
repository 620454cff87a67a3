package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yaron8/ksp-telemetry/dao"
	"github.com/yaron8/ksp-telemetry/datasource"
	"github.com/yaron8/ksp-telemetry/delimited"
	"github.com/yaron8/ksp-telemetry/logger/config"
	"github.com/yaron8/ksp-telemetry/logger/options"
	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/producer"
	"github.com/yaron8/ksp-telemetry/recorder"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

type Bootstrap struct {
	options     *options.Options
	config      *config.Config
	session     string
	source      *datasource.Source
	frame       *telemetrics.Frame
	recorder    *recorder.Recorder
	redisClient *redis.Client
	out         io.Writer
	logger      *slog.Logger
}

func NewBootstrap(ctx context.Context, opts *options.Options, cfg *config.Config) (*Bootstrap, error) {
	return newBootstrap(ctx, opts, cfg, os.Stdout)
}

func newBootstrap(ctx context.Context, opts *options.Options, cfg *config.Config, out io.Writer) (*Bootstrap, error) {
	b := &Bootstrap{
		options: opts,
		config:  cfg,
		session: uuid.NewString(),
		out:     out,
		logger:  logi.GetLogger(),
	}

	logConfig, err := telemetrics.LoadLogConfig(*opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(b.out, "Setting up connection")
	b.source, err = datasource.Open(ctx, cfg.KRPC, datasource.Options{Simulate: *opts.Simulate})
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(b.out, b.source.String())

	if err := b.setup(logConfig); err != nil {
		b.close()
		return nil, err
	}
	return b, nil
}

func (b *Bootstrap) setup(logConfig *telemetrics.LogConfig) error {
	style := logConfig.HeaderStyle()
	if *b.options.Qualified {
		style = telemetrics.HeaderQualified
	}

	fmt.Fprintln(b.out, "Logging items:")
	for _, item := range logConfig.Items {
		for _, attribute := range item.Attributes {
			fmt.Fprintln(b.out, "...", item.Category, attribute)
		}
	}

	var err error
	b.frame, err = telemetrics.NewFrame(logConfig.Items, style, b.source)
	if err != nil {
		return err
	}

	file := delimited.NewFileSink(*b.options.OutFile)
	sinks := []recorder.Sink{file}
	if b.config.Redis.Enabled() {
		b.redisClient = b.config.Redis.NewClient()
		sinks = append(sinks, dao.NewDAOTelemetry(b.redisClient, b.session, b.config.Redis.TTL, b.config.Redis.MaxRows))
	}
	if p := producer.NewKafkaProducer(b.config.Kafka.BrokerList(), b.config.Kafka.Topic, b.session); p != nil {
		sinks = append(sinks, p)
	}

	fmt.Fprintln(b.out, "Logging CSV data to: ", file.Path())

	interval := time.Duration(*b.options.Interval * float64(time.Second))
	b.recorder = recorder.NewRecorder(b.frame, interval, sinks...).
		WithMaxSamples(*b.options.MaxSamples).
		WithOutput(b.out)

	b.logger.Info("Logger ready",
		"session", b.session,
		"source", b.source.String(),
		"outfile", *b.options.OutFile,
		"columns", len(b.frame.Columns()),
		"sinks", len(sinks))
	return nil
}

func (b *Bootstrap) Session() string {
	return b.session
}

func (b *Bootstrap) Columns() []string {
	return b.frame.Columns()
}

// Run logs until ctx is cancelled or the sample limit is reached.
func (b *Bootstrap) Run(ctx context.Context) error {
	defer b.close()
	return b.recorder.Run(ctx)
}

func (b *Bootstrap) close() {
	if b.redisClient != nil {
		if err := b.redisClient.Close(); err != nil {
			b.logger.Error("Error closing Redis client", "error", err)
		}
	}
	if err := b.source.Close(); err != nil {
		b.logger.Error("Error closing data source", "error", err)
	}
}
