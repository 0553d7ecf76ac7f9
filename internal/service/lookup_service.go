package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Cheertaboi/coupon-dashboard/internal/cache"
	"github.com/Cheertaboi/coupon-dashboard/internal/concurrency"
	"github.com/Cheertaboi/coupon-dashboard/internal/models"
	"github.com/Cheertaboi/coupon-dashboard/internal/repository"
)

type LojasSource interface {
	Lojas(ctx context.Context) ([]models.Loja, error)
}

type GeoSource interface {
	Estados(ctx context.Context) ([]models.Estado, error)
	Municipios(ctx context.Context, uf string) ([]models.Municipio, error)
}

type RetryConfig struct {
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

// Options are the choices offered by the filter bar.
type Options struct {
	Lojas      []models.Loja      `json:"lojas"`
	Estados    []models.Estado    `json:"estados"`
	Municipios []models.Municipio `json:"municipios"`
}

// LookupService loads the filter bar option lists. A failing lookup is
// retried, then logged and replaced by an empty list so the page still
// renders.
type LookupService struct {
	lojas     LojasSource
	geo       GeoSource
	retryConf RetryConfig
	log       *slog.Logger

	lojasCache      *cache.Cache[[]models.Loja]
	estadosCache    *cache.Cache[[]models.Estado]
	municipiosCache *cache.Cache[[]models.Municipio]
}

func NewLookupService(lojas LojasSource, geo GeoSource, retryConf RetryConfig, ttl time.Duration, log *slog.Logger) *LookupService {
	if retryConf.Attempts < 1 {
		retryConf.Attempts = 1
	}
	// municipios keeps at most one entry per state
	opts := cache.Options{TTL: ttl, MaxStale: ttl, MaxEntries: 64, Logger: log}
	return &LookupService{
		lojas:           lojas,
		geo:             geo,
		retryConf:       retryConf,
		log:             log,
		lojasCache:      cache.New[[]models.Loja](opts),
		estadosCache:    cache.New[[]models.Estado](opts),
		municipiosCache: cache.New[[]models.Municipio](opts),
	}
}

// Options loads stores, states and, when uf is set, its municipalities
// concurrently.
func (s *LookupService) Options(ctx context.Context, uf string) Options {
	var out Options
	tasks := []concurrency.Task{
		func(ctx context.Context) { out.Lojas = s.Lojas(ctx) },
		func(ctx context.Context) { out.Estados = s.Estados(ctx) },
	}
	out.Municipios = []models.Municipio{}
	if uf != "" {
		tasks = append(tasks, func(ctx context.Context) { out.Municipios = s.Municipios(ctx, uf) })
	}
	concurrency.Run(ctx, len(tasks), tasks...)
	out.Lojas = nonNil(out.Lojas)
	out.Estados = nonNil(out.Estados)
	return out
}

func (s *LookupService) Lojas(ctx context.Context) []models.Loja {
	lojas, err := s.lojasCache.Fetch(ctx, "lojas", func(ctx context.Context) ([]models.Loja, error) {
		var lojas []models.Loja
		err := s.retry(ctx, func() error {
			var err error
			lojas, err = s.lojas.Lojas(ctx)
			return err
		})
		return lojas, err
	})
	if err != nil {
		s.log.Error("failed to load lojas", slog.Any("error", err))
		return []models.Loja{}
	}
	return nonNil(lojas)
}

// Estados returns the states sorted by name.
func (s *LookupService) Estados(ctx context.Context) []models.Estado {
	estados, err := s.estadosCache.Fetch(ctx, "estados", func(ctx context.Context) ([]models.Estado, error) {
		var estados []models.Estado
		err := s.retry(ctx, func() error {
			var err error
			estados, err = s.geo.Estados(ctx)
			return err
		})
		sortByNome(estados, func(e models.Estado) string { return e.Nome })
		return estados, err
	})
	if err != nil {
		s.log.Error("failed to load estados", slog.Any("error", err))
		return []models.Estado{}
	}
	return nonNil(estados)
}

// Municipios returns the municipalities of uf sorted by name.
func (s *LookupService) Municipios(ctx context.Context, uf string) []models.Municipio {
	municipios, err := s.municipiosCache.Fetch(ctx, uf, func(ctx context.Context) ([]models.Municipio, error) {
		var municipios []models.Municipio
		err := s.retry(ctx, func() error {
			var err error
			municipios, err = s.geo.Municipios(ctx, uf)
			return err
		})
		sortByNome(municipios, func(m models.Municipio) string { return m.Nome })
		return municipios, err
	})
	if err != nil {
		s.log.Error("failed to load municipios", slog.String("uf", uf), slog.Any("error", err))
		return []models.Municipio{}
	}
	return nonNil(municipios)
}

func (s *LookupService) retry(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(s.retryConf.Attempts),
		retry.Delay(s.retryConf.Delay),
		retry.MaxDelay(s.retryConf.MaxDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(repository.IsRetryable),
	)
}

// sortByNome orders items alphabetically with Portuguese collation, so
// accented names sort next to their unaccented neighbours.
func sortByNome[T any](items []T, nome func(T) string) {
	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(nome(items[i]), nome(items[j])) < 0
	})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
