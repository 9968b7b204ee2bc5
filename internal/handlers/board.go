package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/catalog"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/logger"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/render"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/viewer"
)

// BoardHandler serves the server-rendered station page
type BoardHandler struct {
	catalog       StationCatalog
	fetcher       ScheduleFetcher
	labels        config.Labels
	catalogFailed bool
	timeout       time.Duration
	log           logger.Logger
}

// BoardOptions configures a BoardHandler
type BoardOptions struct {
	Catalog StationCatalog
	Fetcher ScheduleFetcher
	Labels  config.Labels
	// CatalogFailed makes the page show the catalog error status until a fetch replaces it
	CatalogFailed bool
	Timeout       time.Duration
	Logger        logger.Logger
}

// NewBoardHandler creates a new page handler
func NewBoardHandler(opts BoardOptions) *BoardHandler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &BoardHandler{
		catalog:       opts.Catalog,
		fetcher:       opts.Fetcher,
		labels:        opts.Labels,
		catalogFailed: opts.CatalogFailed,
		timeout:       timeout,
		log:           log,
	}
}

// GetPage handles GET /
// Query params: q (station filter), station (selected code), fetch=1 (run the fetch action)
func (h *BoardHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q := r.URL.Query()
	data := render.PageData{
		Labels:   h.labels,
		Options:  catalog.Filter(h.catalog.Options(), q.Get("q")),
		Query:    q.Get("q"),
		Selected: strings.ToUpper(q.Get("station")),
	}
	if h.catalogFailed {
		data.Status = h.labels.StatusCatalogError
	}

	if q.Get("fetch") == "1" {
		// Errors are already carried by the status line
		result, _ := h.fetcher.Fetch(ctx, data.Selected)
		data.Status = result.Status
		if result.Board != nil {
			data.Tables = render.BuildTables(*result.Board, h.labels)
		}
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, data); err != nil {
		h.log.Error("Failed to render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetTables handles GET /board/{code}
// Returns only the two schedule sections as an HTML fragment, with the status
// line in the X-Board-Status header.
func (h *BoardHandler) GetTables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	result, err := h.fetcher.Fetch(ctx, code)

	status := http.StatusOK
	switch {
	case errors.Is(err, viewer.ErrNoStation):
		status = http.StatusBadRequest
	case err != nil:
		status = http.StatusBadGateway
	}

	var tables []render.Table
	if result.Board != nil {
		tables = render.BuildTables(*result.Board, h.labels)
	}

	var buf bytes.Buffer
	if err := render.Tables(&buf, tables); err != nil {
		h.log.Error("Failed to render tables", "station", code, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Board-Status", result.Status)
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
