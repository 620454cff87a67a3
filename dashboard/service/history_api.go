package service

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

const defaultHistoryRows = 100

type historyResponse struct {
	Session string               `json:"session"`
	Columns []string             `json:"columns"`
	Rows    []telemetrics.Record `json:"rows"`
}

type latestResponse struct {
	Session string             `json:"session"`
	Values  map[string]float64 `json:"values"`
}

// historyHandler lists the stored sessions, or with ?session= returns the
// last n rows of one session. ?latest=1 returns only its newest values.
func (api *APIServer) historyHandler(w http.ResponseWriter, r *http.Request) {
	if api.history == nil {
		http.Error(w, "History is not configured", http.StatusNotFound)
		return
	}
	ctx := r.Context()

	session := r.URL.Query().Get("session")
	if session == "" {
		sessions, err := api.history.Sessions(ctx)
		if err != nil {
			api.logger.Error("Error listing sessions", "error", err)
			http.Error(w, fmt.Sprintf("Error listing sessions: %v", err), http.StatusInternalServerError)
			return
		}
		api.writeJSON(w, map[string][]string{"sessions": sessions})
		return
	}

	latest := r.URL.Query().Get("latest")
	if latest != "" && latest != "0" && latest != "1" {
		http.Error(w, "Invalid latest parameter", http.StatusBadRequest)
		return
	}

	n := int64(defaultHistoryRows)
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			http.Error(w, "Invalid n parameter", http.StatusBadRequest)
			return
		}
		n = v
	}

	columns, err := api.history.GetColumns(ctx, session)
	if err != nil {
		api.logger.Error("Error retrieving columns", "session", session, "error", err)
		http.Error(w, fmt.Sprintf("Error retrieving session: %v", err), http.StatusInternalServerError)
		return
	}
	if len(columns) == 0 {
		http.Error(w, fmt.Sprintf("Unknown session %s", session), http.StatusNotFound)
		return
	}

	if latest == "1" {
		api.latestHistory(w, r, session)
		return
	}

	rows, err := api.history.GetRows(ctx, session, n)
	if err != nil {
		api.logger.Error("Error retrieving rows", "session", session, "error", err)
		http.Error(w, fmt.Sprintf("Error retrieving rows: %v", err), http.StatusInternalServerError)
		return
	}

	api.writeJSON(w, historyResponse{Session: session, Columns: columns, Rows: rows})
}

func (api *APIServer) latestHistory(w http.ResponseWriter, r *http.Request, session string) {
	values, err := api.history.GetLatest(r.Context(), session)
	if err != nil {
		api.logger.Error("Error retrieving latest values", "session", session, "error", err)
		http.Error(w, fmt.Sprintf("Error retrieving latest values: %v", err), http.StatusInternalServerError)
		return
	}

	// NaN and Inf have no JSON form
	for column, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(values, column)
		}
	}
	api.writeJSON(w, latestResponse{Session: session, Values: values})
}
