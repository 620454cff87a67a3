package service

import (
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed index.html
var indexPage string

var indexTemplate = template.Must(template.New("index").Parse(indexPage))

type indexData struct {
	UpdateMillis int64
	Rollover     int
}

func (api *APIServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{
		UpdateMillis: api.config.UpdateInterval.Milliseconds(),
		Rollover:     api.config.Rollover,
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		api.logger.Error("Error rendering index page", "error", err)
	}
}
