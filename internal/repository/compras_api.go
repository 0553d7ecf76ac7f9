package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

// ComprasAPI reads purchases, stores and exports from the purchases API.
type ComprasAPI struct {
	httpSource
}

func NewComprasAPI(baseURL string, client *http.Client, log *slog.Logger) *ComprasAPI {
	return &ComprasAPI{httpSource: newHTTPSource(baseURL, client, log)}
}

// List fetches one page of purchases matching f.
func (r *ComprasAPI) List(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
	body, err := r.getRaw(ctx, "compras", "/v1/compras", f.Query(page))
	if err != nil {
		return nil, err
	}
	return normalizePage(body, page)
}

type exportResponse struct {
	URLs []string `json:"urls"`
}

// Export asks the API to generate export files for f and returns their
// download URLs. An empty slice means nothing matched.
func (r *ComprasAPI) Export(ctx context.Context, f models.Filters) ([]string, error) {
	var resp exportResponse
	if err := r.getJSON(ctx, "export", "/v1/compras/export", f.Values(), &resp); err != nil {
		return nil, err
	}
	return resp.URLs, nil
}

func (r *ComprasAPI) Lojas(ctx context.Context) ([]models.Loja, error) {
	var lojas []models.Loja
	if err := r.getJSON(ctx, "lojas", "/v1/lojas", nil, &lojas); err != nil {
		return nil, err
	}
	return lojas, nil
}

type wrappedPage struct {
	Compras    []models.Compra `json:"compras"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Stats      *models.Stats   `json:"stats"`
}

// normalizePage accepts either the wrapped page object or a bare array
// of purchases. Missing or zero metadata falls back to the list length,
// the requested page and ceil(total/PageSize).
func normalizePage(body []byte, page int) (*models.ComprasPage, error) {
	var w wrappedPage
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &w.Compras); err != nil {
			return nil, fmt.Errorf("decode compras list: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, fmt.Errorf("decode compras page: %w", err)
	}

	out := &models.ComprasPage{
		Compras:    w.Compras,
		Total:      w.Total,
		Page:       w.Page,
		TotalPages: w.TotalPages,
		Stats:      w.Stats,
	}
	if out.Compras == nil {
		out.Compras = []models.Compra{}
	}
	if out.Total == 0 {
		out.Total = len(out.Compras)
	}
	if out.Page == 0 {
		out.Page = page
	}
	if out.TotalPages == 0 {
		out.TotalPages = models.TotalPagesFor(out.Total)
	}
	return out, nil
}
