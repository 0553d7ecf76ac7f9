package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Cheertaboi/coupon-dashboard/internal/metrics"
	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

var (
	ErrNothingToExport  = errors.New("nenhum dado para exportar")
	ErrExportInProgress = errors.New("exportação já em andamento")
	ErrExportFailed     = errors.New("erro ao exportar")
)

// ExportService triggers exports of the applied filters. Only one
// export per filter set runs at a time.
type ExportService struct {
	source ComprasSource
	log    *slog.Logger

	mu      sync.Mutex
	running map[string]struct{}
}

func NewExportService(source ComprasSource, log *slog.Logger) *ExportService {
	return &ExportService{
		source:  source,
		log:     log,
		running: make(map[string]struct{}),
	}
}

// Export returns the download URLs for f. It fails with
// ErrNothingToExport when the API returns no files, ErrExportInProgress
// when the same export is still running and ErrExportFailed otherwise.
func (s *ExportService) Export(ctx context.Context, f models.Filters) ([]string, error) {
	key := f.Values().Encode()
	if !s.acquire(key) {
		metrics.Exports.WithLabelValues("in_progress").Inc()
		return nil, ErrExportInProgress
	}
	defer s.release(key)

	urls, err := s.source.Export(ctx, f)
	if err != nil {
		metrics.Exports.WithLabelValues("error").Inc()
		s.log.Error("export failed", slog.String("filters", key), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if len(urls) == 0 {
		metrics.Exports.WithLabelValues("empty").Inc()
		return nil, ErrNothingToExport
	}
	metrics.Exports.WithLabelValues("ok").Inc()
	s.log.Info("export ready", slog.String("filters", key), slog.Int("files", len(urls)))
	return urls, nil
}

// InProgress reports whether an export of f is running.
func (s *ExportService) InProgress(f models.Filters) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[f.Values().Encode()]
	return ok
}

func (s *ExportService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[key]; ok {
		return false
	}
	s.running[key] = struct{}{}
	return true
}

func (s *ExportService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, key)
}
