package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

func dataset(n int) []models.Compra {
	out := make([]models.Compra, 0, n)
	for i := 0; i < n; i++ {
		estado := "SP"
		if i%2 == 1 {
			estado = "RJ"
		}
		out = append(out, models.Compra{
			ID:        fmt.Sprintf("c%d", i),
			Estado:    estado,
			Loja:      models.Loja{ID: fmt.Sprintf("l%d", i%3), Nome: fmt.Sprintf("Loja %d", i%3)},
			Cupons:    []models.Cupom{{ID: "x", Numero: fmt.Sprintf("%06d", i)}},
			CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestOfflineRepo_FiltersAndPaginates(t *testing.T) {
	repo := NewOfflineRepo(dataset(50), time.UTC)

	p, err := repo.List(context.Background(), models.Filters{Estado: "sp"}, 2)
	require.NoError(t, err)

	assert.Equal(t, 25, p.Total)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, 2, p.Page)
	assert.Len(t, p.Compras, 5)
	for _, c := range p.Compras {
		assert.Equal(t, "SP", c.Estado)
	}
}

func TestOfflineRepo_PageBeyondEnd(t *testing.T) {
	repo := NewOfflineRepo(dataset(3), time.UTC)

	p, err := repo.List(context.Background(), models.Filters{}, 9)
	require.NoError(t, err)

	assert.Empty(t, p.Compras)
	assert.Equal(t, 3, p.Total)
}

func TestOfflineRepo_ExportUnavailable(t *testing.T) {
	_, err := NewOfflineRepo(nil, nil).Export(context.Background(), models.Filters{})

	assert.ErrorIs(t, err, ErrExportUnavailable)
}

func TestOfflineRepo_LojasDistinct(t *testing.T) {
	lojas, err := NewOfflineRepo(dataset(10), nil).Lojas(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Loja{
		{ID: "l0", Nome: "Loja 0"},
		{ID: "l1", Nome: "Loja 1"},
		{ID: "l2", Nome: "Loja 2"},
	}, lojas)
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compras.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"compras":[{"_id":"a","valor":10}]}`), 0o600))

	compras, err := LoadFixture(path)
	require.NoError(t, err)
	require.Len(t, compras, 1)
	assert.Equal(t, "a", compras[0].ID)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadFixture_SampleDataset(t *testing.T) {
	compras, err := LoadFixture(filepath.Join("..", "..", "testdata", "compras.json"))
	require.NoError(t, err)
	require.Len(t, compras, 30)

	repo := NewOfflineRepo(compras, time.UTC)
	p, err := repo.List(context.Background(), models.Filters{Estado: "sp"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Total)
	for _, c := range p.Compras {
		assert.Equal(t, "SP", c.Estado)
	}
}
