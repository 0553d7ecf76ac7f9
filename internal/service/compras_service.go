package service

import (
	"context"
	"log/slog"

	"github.com/Cheertaboi/coupon-dashboard/internal/cache"
	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

// ComprasSource is where purchases come from: the remote API in live
// mode, the in-memory dataset offline.
type ComprasSource interface {
	List(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error)
	Export(ctx context.Context, f models.Filters) ([]string, error)
	Lojas(ctx context.Context) ([]models.Loja, error)
}

// PageLoader loads one page of purchases for the applied filters.
type PageLoader interface {
	Page(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error)
}

type ComprasService struct {
	source ComprasSource
	cache  *cache.Cache[*models.ComprasPage]
	log    *slog.Logger
}

func NewComprasService(source ComprasSource, c *cache.Cache[*models.ComprasPage], log *slog.Logger) *ComprasService {
	return &ComprasService{source: source, cache: c, log: log}
}

// Page returns the purchases for (f, page), served from the cache while
// fresh.
func (s *ComprasService) Page(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
	if page < 1 {
		page = 1
	}
	return s.cache.Fetch(ctx, f.Key(page), func(ctx context.Context) (*models.ComprasPage, error) {
		s.log.Debug("loading compras page", slog.String("query", f.Key(page)))
		return s.source.List(ctx, f, page)
	})
}
