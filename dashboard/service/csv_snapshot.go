package service

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/yaron8/ksp-telemetry/dashboard/window"
	"github.com/yaron8/ksp-telemetry/delimited"
)

type CSVResponse struct {
	HTTPResponseCode int
	ETag             string
	CSVData          string
}

// CSVSnapshot renders the window in the log file format. Renders are
// cached per window version.
type CSVSnapshot struct {
	window   *window.Window
	cache    *ristretto.Cache
	cacheTTL time.Duration
}

func NewCSVSnapshot(win *window.Window, cacheTTL time.Duration) (*CSVSnapshot, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}

	return &CSVSnapshot{
		window:   win,
		cache:    cache,
		cacheTTL: cacheTTL,
	}, nil
}

func etag(version uint64) string {
	return `"` + strconv.FormatUint(version, 10) + `"`
}

// GetCSV returns 304 when ifNoneMatch already names the current version.
func (cs *CSVSnapshot) GetCSV(ifNoneMatch string) (CSVResponse, error) {
	version := cs.window.Version()
	tag := etag(version)
	if matches(ifNoneMatch, tag) {
		return CSVResponse{HTTPResponseCode: http.StatusNotModified, ETag: tag}, nil
	}

	if cached, ok := cs.cache.Get(version); ok {
		return CSVResponse{HTTPResponseCode: http.StatusOK, ETag: tag, CSVData: cached.(string)}, nil
	}

	columns, rows, version := cs.window.Snapshot()

	var buf bytes.Buffer
	writer := delimited.NewWriter(&buf)
	if err := writer.Write(columns); err != nil {
		return CSVResponse{}, fmt.Errorf("error writing header: %w", err)
	}
	for _, row := range rows {
		if err := writer.WriteFloats(row.Values); err != nil {
			return CSVResponse{}, err
		}
	}
	if err := writer.Flush(); err != nil {
		return CSVResponse{}, fmt.Errorf("error flushing writer: %w", err)
	}

	data := buf.String()
	cs.cache.SetWithTTL(version, data, int64(len(data)), cs.cacheTTL)

	return CSVResponse{HTTPResponseCode: http.StatusOK, ETag: etag(version), CSVData: data}, nil
}

func matches(ifNoneMatch, tag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == tag || candidate == "*" {
			return true
		}
	}
	return false
}

func (cs *CSVSnapshot) Close() {
	cs.cache.Close()
}
