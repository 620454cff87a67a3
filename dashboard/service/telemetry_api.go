package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yaron8/ksp-telemetry/dashboard/window"
)

type windowResponse struct {
	Version uint64          `json:"version"`
	Columns []string        `json:"columns"`
	Rows    []window.Sample `json:"rows"`
}

func (api *APIServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Can't send error response after WriteHeader, just log it
		api.logger.Error("Error encoding response to JSON", "error", err)
	}
}

func (api *APIServer) plotsHandler(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, api.plots)
}

func (api *APIServer) columnsHandler(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, api.window.Columns())
}

func (api *APIServer) latestHandler(w http.ResponseWriter, r *http.Request) {
	sample, ok := api.window.Latest()
	if !ok {
		http.Error(w, "No telemetry yet", http.StatusNotFound)
		return
	}
	api.writeJSON(w, sample)
}

// windowHandler returns the rows newer than ?since=<version>.
func (api *APIServer) windowHandler(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid since parameter: %v", err), http.StatusBadRequest)
			return
		}
		since = v
	}

	rows, version := api.window.Since(since)
	api.writeJSON(w, windowResponse{
		Version: version,
		Columns: api.window.Columns(),
		Rows:    rows,
	})
}

func (api *APIServer) csvHandler(w http.ResponseWriter, r *http.Request) {
	csvResponse, err := api.csv.GetCSV(r.Header.Get("If-None-Match"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Error generating CSV snapshot: %v", err),
			http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", csvResponse.ETag)
	if csvResponse.HTTPResponseCode == http.StatusNotModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(csvResponse.HTTPResponseCode)
	fmt.Fprint(w, csvResponse.CSVData)
}
