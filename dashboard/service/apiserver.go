package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yaron8/ksp-telemetry/dashboard/config"
	"github.com/yaron8/ksp-telemetry/dashboard/window"
	"github.com/yaron8/ksp-telemetry/logi"
	"github.com/yaron8/ksp-telemetry/telemetrics"
)

// HistoryStore reads stored sessions back. *dao.DAOTelemetry implements it.
type HistoryStore interface {
	Sessions(ctx context.Context) ([]string, error)
	GetColumns(ctx context.Context, session string) ([]string, error)
	GetLatest(ctx context.Context, session string) (map[string]float64, error)
	GetRows(ctx context.Context, session string, n int64) ([]telemetrics.Record, error)
}

type APIServer struct {
	config  *config.Config
	window  *window.Window
	plots   []config.Plot
	csv     *CSVSnapshot
	history HistoryStore
	server  *http.Server
	logger  *slog.Logger
}

// NewAPIServer serves the window. history may be nil when Redis is not
// configured.
func NewAPIServer(cfg *config.Config, win *window.Window, plots []config.Plot, history HistoryStore) (*APIServer, error) {
	csv, err := NewCSVSnapshot(win, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	api := &APIServer{
		config:  cfg,
		window:  win,
		plots:   plots,
		csv:     csv,
		history: history,
		logger:  logi.GetLogger(),
	}
	api.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return api, nil
}

// Handler builds the routes wrapped with the logging middleware.
func (api *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			api.logger.Error("Error writing health check response", "error", err)
		}
	})

	mux.HandleFunc("/", api.indexHandler)
	mux.HandleFunc("/telemetry/plots", api.plotsHandler)
	mux.HandleFunc("/telemetry/columns", api.columnsHandler)
	mux.HandleFunc("/telemetry/latest", api.latestHandler)
	mux.HandleFunc("/telemetry/window", api.windowHandler)
	mux.HandleFunc("/telemetry/csv", api.csvHandler)
	mux.HandleFunc("/telemetry/history", api.historyHandler)

	return api.middleware(mux)
}

// Start serves until Shutdown is called. A server shut down before Start
// returns immediately.
func (api *APIServer) Start() error {
	api.logger.Info("Dashboard APIServer starting", "port", api.config.Port)

	fmt.Printf("Dashboard running on http://localhost:%d\n", api.config.Port)
	if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		api.logger.Error("Server failed to start", "error", err, "port", api.config.Port)
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (api *APIServer) Shutdown(ctx context.Context) error {
	defer api.csv.Close()
	return api.server.Shutdown(ctx)
}
