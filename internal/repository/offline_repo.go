package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Cheertaboi/coupon-dashboard/internal/filter"
	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

var ErrExportUnavailable = errors.New("exportação indisponível no modo offline")

// OfflineRepo serves purchases from an in-memory dataset, filtering with
// filter.Match the way the remote API would.
type OfflineRepo struct {
	compras []models.Compra
	loc     *time.Location
}

func NewOfflineRepo(compras []models.Compra, loc *time.Location) *OfflineRepo {
	return &OfflineRepo{compras: compras, loc: loc}
}

func (r *OfflineRepo) List(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	matched := make([]models.Compra, 0)
	for _, c := range r.compras {
		if filter.Match(c, f, r.loc) {
			matched = append(matched, c)
		}
	}

	total := len(matched)
	start := min((page-1)*models.PageSize, total)
	end := min(start+models.PageSize, total)
	return &models.ComprasPage{
		Compras:    matched[start:end],
		Total:      total,
		Page:       page,
		TotalPages: models.TotalPagesFor(total),
	}, nil
}

func (r *OfflineRepo) Export(ctx context.Context, f models.Filters) ([]string, error) {
	return nil, ErrExportUnavailable
}

// Lojas lists the distinct stores present in the dataset, by name.
func (r *OfflineRepo) Lojas(ctx context.Context) ([]models.Loja, error) {
	seen := make(map[string]bool)
	lojas := make([]models.Loja, 0)
	for _, c := range r.compras {
		if c.Loja.ID == "" || seen[c.Loja.ID] {
			continue
		}
		seen[c.Loja.ID] = true
		lojas = append(lojas, c.Loja)
	}
	sort.Slice(lojas, func(i, j int) bool { return lojas[i].Nome < lojas[j].Nome })
	return lojas, nil
}

// LoadFixture reads purchases from a JSON file holding either an array
// or a wrapped page object.
func LoadFixture(path string) ([]models.Compra, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	p, err := normalizePage(data, 1)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return p.Compras, nil
}

// LoadSnapshot reads purchases from the read-only compras_snapshot table,
// newest first. Each row stores one purchase document as JSON.
func LoadSnapshot(ctx context.Context, db *sql.DB) ([]models.Compra, error) {
	query := `
		SELECT documento
		FROM compras_snapshot
		ORDER BY created_at DESC
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	compras := make([]models.Compra, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var c models.Compra
		if err := json.NewDecoder(bytes.NewReader(doc)).Decode(&c); err != nil {
			return nil, fmt.Errorf("decode snapshot row: %w", err)
		}
		compras = append(compras, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot: %w", err)
	}
	return compras, nil
}
