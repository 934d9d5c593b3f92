// estat-mcp - e-Stat Government Statistics Client and MCP Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estat-mcp

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/estat-mcp/internal/estat"
	"github.com/tomtom215/estat-mcp/internal/logging"
	"github.com/tomtom215/estat-mcp/internal/models"
)

// Handler serves the REST endpoints from a StatsClient.
type Handler struct {
	client    estat.StatsClient
	startTime time.Time

	// upstream, when set, supplies reachability for the health endpoints.
	upstream UpstreamStatus
	ping     pingCache
}

// NewHandler creates a handler over client.
func NewHandler(client estat.StatsClient) *Handler {
	return &Handler{client: client, startTime: time.Now()}
}

// SearchStats handles GET /api/v1/stats.
func (h *Handler) SearchStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q, err := searchQueryFromRequest(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	tables, err := h.client.SearchStats(r.Context(), q)
	if err != nil {
		rw.ClientError(err)
		return
	}
	if tables == nil {
		tables = []models.StatsTable{}
	}
	rw.SuccessWithPagination(tables, &PaginationMeta{
		Total: len(tables),
		Count: len(tables),
		Limit: q.WithDefaults().Limit,
	})
}

// StatsMeta handles GET /api/v1/stats/{statsID}/meta.
func (h *Handler) StatsMeta(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	meta, err := h.client.GetMeta(r.Context(), chi.URLParam(r, "statsID"))
	if err != nil {
		rw.ClientError(err)
		return
	}
	rw.Success(meta)
}

// StatsData handles GET /api/v1/stats/{statsID}/data.
func (h *Handler) StatsData(w http.ResponseWriter, r *http.Request) {
	h.serveData(w, r, func(q models.DataQuery) (*models.StatsData, error) {
		return h.client.GetData(r.Context(), q)
	})
}

// StatsAllData handles GET /api/v1/stats/{statsID}/data/all.
func (h *Handler) StatsAllData(w http.ResponseWriter, r *http.Request) {
	maxPages, err := getIntParam(r, "max_pages")
	if err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if err := estat.ValidateRequestedPages(maxPages); err != nil {
		NewResponseWriter(w, r).ClientError(err)
		return
	}
	h.serveData(w, r, func(q models.DataQuery) (*models.StatsData, error) {
		return h.client.GetAllData(r.Context(), q, maxPages)
	})
}

func (h *Handler) serveData(w http.ResponseWriter, r *http.Request, fetch func(models.DataQuery) (*models.StatsData, error)) {
	rw := NewResponseWriter(w, r)
	q, err := dataQueryFromRequest(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	format, err := outputFormat(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	data, err := fetch(q)
	if err != nil {
		rw.ClientError(err)
		return
	}

	if format == formatCSV {
		writeCSV(w, r, data)
		return
	}

	eff := q.WithDefaults()
	rw.SuccessWithPagination(data, &PaginationMeta{
		Total:         data.TotalCount,
		Count:         len(data.Values),
		StartPosition: eff.StartPosition,
		Limit:         eff.Limit,
		HasMore:       data.HasMore(),
		NextPosition:  data.NextPosition,
		Pages:         data.PagesFetched,
		Truncated:     data.Truncated,
	})
}

// writeCSV streams the table export. Paging state travels in headers since
// CSV has no envelope.
func writeCSV(w http.ResponseWriter, r *http.Request, data *models.StatsData) {
	h := w.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", data.StatsID+".csv"))
	h.Set("X-Total-Count", fmt.Sprint(data.TotalCount))
	if data.HasMore() {
		h.Set("X-Next-Position", fmt.Sprint(data.NextPosition))
	}
	if data.Truncated {
		h.Set("X-Truncated", "true")
	}
	w.WriteHeader(http.StatusOK)

	if err := data.WriteCSV(w); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write CSV response")
	}
}
