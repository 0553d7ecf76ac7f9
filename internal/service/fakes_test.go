package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	listCalls atomic.Int32
	listFn    func(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error)
	exportFn  func(ctx context.Context, f models.Filters) ([]string, error)
	lojasFn   func(ctx context.Context) ([]models.Loja, error)
}

func (s *fakeSource) List(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
	s.listCalls.Add(1)
	return s.listFn(ctx, f, page)
}

func (s *fakeSource) Export(ctx context.Context, f models.Filters) ([]string, error) {
	return s.exportFn(ctx, f)
}

func (s *fakeSource) Lojas(ctx context.Context) ([]models.Loja, error) {
	return s.lojasFn(ctx)
}

type fakeGeo struct {
	mu         sync.Mutex
	estadosErr []error
	calls      int
	estados    []models.Estado
	municipios map[string][]models.Municipio
}

func (g *fakeGeo) Estados(ctx context.Context) ([]models.Estado, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if len(g.estadosErr) > 0 {
		err := g.estadosErr[0]
		g.estadosErr = g.estadosErr[1:]
		return nil, err
	}
	return append([]models.Estado(nil), g.estados...), nil
}

func (g *fakeGeo) Municipios(ctx context.Context, uf string) ([]models.Municipio, error) {
	return append([]models.Municipio(nil), g.municipios[uf]...), nil
}
