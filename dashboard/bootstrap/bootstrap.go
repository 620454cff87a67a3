package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/yaron8/ksp-telemetry/dao"
	"github.com/yaron8/ksp-telemetry/dashboard/config"
	"github.com/yaron8/ksp-telemetry/dashboard/service"
	"github.com/yaron8/ksp-telemetry/dashboard/window"
	"github.com/yaron8/ksp-telemetry/datasource"
	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/producer"
	"github.com/yaron8/ksp-telemetry/recorder"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

const shutdownTimeout = 5 * time.Second

type Bootstrap struct {
	config      *config.Config
	session     string
	source      *datasource.Source
	window      *window.Window
	recorder    *recorder.Recorder
	apiServer   *service.APIServer
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	b := &Bootstrap{
		config:  cfg,
		session: uuid.NewString(),
		window:  window.New(cfg.Rollover),
		logger:  logi.GetLogger(),
	}

	logConfig, err := telemetrics.LoadLogConfig(cfg.ItemsFile)
	if err != nil {
		return nil, err
	}
	plots, err := config.LoadPlots(cfg.ItemsFile)
	if err != nil {
		return nil, err
	}

	fmt.Println("Setting up connection")
	b.source, err = datasource.Open(ctx, cfg.KRPC, datasource.Options{Simulate: cfg.Simulate, Fallback: true})
	if err != nil {
		return nil, err
	}

	if err := b.setup(logConfig.Items, plots); err != nil {
		b.close()
		return nil, err
	}
	return b, nil
}

func (b *Bootstrap) setup(items telemetrics.Items, plots []config.Plot) error {
	// the chart addresses columns by their qualified names
	frame, err := telemetrics.NewFrame(items, telemetrics.HeaderQualified, b.source)
	if err != nil {
		return err
	}
	if err := config.CheckPlots(plots, frame.Columns()); err != nil {
		return err
	}

	sinks := []recorder.Sink{b.window}

	var history service.HistoryStore
	if b.config.Redis.Enabled() {
		b.redisClient = b.config.Redis.NewClient()
		store := dao.NewDAOTelemetry(b.redisClient, b.session, b.config.Redis.TTL, b.config.Redis.MaxRows)
		sinks = append(sinks, store)
		history = store
	}
	if p := producer.NewKafkaProducer(b.config.Kafka.BrokerList(), b.config.Kafka.Topic, b.session); p != nil {
		sinks = append(sinks, p)
	}

	b.recorder = recorder.NewRecorder(frame, b.config.UpdateInterval, sinks...)
	b.apiServer, err = service.NewAPIServer(b.config, b.window, plots, history)
	if err != nil {
		return err
	}

	b.logger.Info("Dashboard ready",
		"session", b.session,
		"source", b.source.String(),
		"columns", len(frame.Columns()),
		"sinks", len(sinks))
	return nil
}

func (b *Bootstrap) Session() string {
	return b.session
}

func (b *Bootstrap) Window() *window.Window {
	return b.window
}

// Run polls telemetry and serves the dashboard until ctx is cancelled or
// either of them fails.
func (b *Bootstrap) Run(ctx context.Context) error {
	defer b.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.recorder.Run(gctx)
	})
	g.Go(func() error {
		return b.apiServer.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return b.apiServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bootstrap) close() {
	if b.redisClient != nil {
		if err := b.redisClient.Close(); err != nil {
			b.logger.Error("Error closing Redis client", "error", err)
		}
	}
	if b.source != nil {
		if err := b.source.Close(); err != nil {
			b.logger.Error("Error closing data source", "error", err)
		}
	}
}
