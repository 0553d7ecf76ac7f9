package repository

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

// GeoAPI reads states and municipalities from the IBGE localidades service.
type GeoAPI struct {
	httpSource
}

func NewGeoAPI(baseURL string, client *http.Client, log *slog.Logger) *GeoAPI {
	return &GeoAPI{httpSource: newHTTPSource(baseURL, client, log)}
}

func (r *GeoAPI) Estados(ctx context.Context) ([]models.Estado, error) {
	var estados []models.Estado
	if err := r.getJSON(ctx, "estados", "/estados", nil, &estados); err != nil {
		return nil, err
	}
	return estados, nil
}

// Municipios lists the municipalities of one state, given by its code
// (sigla) or IBGE id.
func (r *GeoAPI) Municipios(ctx context.Context, uf string) ([]models.Municipio, error) {
	var municipios []models.Municipio
	path := "/estados/" + url.PathEscape(uf) + "/municipios"
	if err := r.getJSON(ctx, "municipios", path, nil, &municipios); err != nil {
		return nil, err
	}
	return municipios, nil
}
