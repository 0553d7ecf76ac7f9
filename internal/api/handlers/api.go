package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
	"github.com/Cheertaboi/coupon-dashboard/internal/pagination"
	"github.com/Cheertaboi/coupon-dashboard/internal/service"
)

type CuponsResponse struct {
	Rows       []models.CupomRow `json:"rows"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Stats      models.Stats      `json:"stats"`
	Pager      pagination.Pager  `json:"pager"`
}

type ExportResponse struct {
	URLs []string `json:"urls"`
}

// APIHandler serves the dashboard data as JSON.
type APIHandler struct {
	pages   service.PageLoader
	lookups Lookups
	exports Exporter
	log     *slog.Logger
}

func NewAPIHandler(pages service.PageLoader, lookups Lookups, exports Exporter, log *slog.Logger) *APIHandler {
	return &APIHandler{pages: pages, lookups: lookups, exports: exports, log: log}
}

// Cupons handles GET /api/cupons
func (h *APIHandler) Cupons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.FiltersFromValues(q, "")
	if err := f.Validate(); err != nil {
		writeError(w, err)
		return
	}
	page := 1
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "page inválida"})
			return
		}
		page = n
	}

	res, err := h.pages.Page(r.Context(), f, page)
	if err != nil {
		h.log.Error("load compras", slog.String("query", f.Key(page)), slog.Any("error", err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CuponsResponse{
		Rows:       service.ProjectRows(res.Compras),
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		Stats:      service.StatsFor(res),
		Pager:      pagination.New(res.Page, res.TotalPages),
	})
}

// Export handles GET /api/export
func (h *APIHandler) Export(w http.ResponseWriter, r *http.Request) {
	f := models.FiltersFromValues(r.URL.Query(), "")
	urls, err := h.exports.Export(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{URLs: urls})
}

// Lojas handles GET /api/lojas
func (h *APIHandler) Lojas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lookups.Lojas(r.Context()))
}

// Estados handles GET /api/estados
func (h *APIHandler) Estados(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.lookups.Estados(r.Context()))
}

// Municipios handles GET /api/estados/{uf}/municipios
func (h *APIHandler) Municipios(w http.ResponseWriter, r *http.Request) {
	uf, ok := models.NormalizeUF(chi.URLParam(r, "uf"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "uf inválida"})
		return
	}
	writeJSON(w, http.StatusOK, h.lookups.Municipios(r.Context(), uf))
}
