package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_OnlyNonEmptyFields(t *testing.T) {
	f := Filters{Cidade: "SP", Cupom: "123"}

	q := f.Query(2)

	assert.Equal(t, url.Values{
		"page":   {"2"},
		"cidade": {"SP"},
		"cupom":  {"123"},
	}, q)
}

func TestKey_StableForEqualSnapshots(t *testing.T) {
	a := Filters{Loja: "l1", Estado: "SP"}
	b := Filters{Estado: "SP", Loja: "l1"}

	assert.Equal(t, a.Key(1), b.Key(1))
	assert.NotEqual(t, a.Key(1), a.Key(2))
}

func TestWith_StateChangeResetsCity(t *testing.T) {
	f := Filters{Estado: "SP", Cidade: "Campinas", Cupom: "9"}

	same := f.With(FieldEstado, "SP")
	assert.Equal(t, "Campinas", same.Cidade)

	changed := f.With(FieldEstado, "RJ")
	assert.Equal(t, "RJ", changed.Estado)
	assert.Empty(t, changed.Cidade)
	assert.Equal(t, "9", changed.Cupom)

	// original snapshot untouched
	assert.Equal(t, "Campinas", f.Cidade)
}

func TestHasActive(t *testing.T) {
	assert.False(t, Filters{}.HasActive())
	assert.True(t, Filters{DataFim: "2025-01-01"}.HasActive())
}

func TestFiltersFromValues_Prefix(t *testing.T) {
	v := url.Values{
		"d_estado": {"SP"},
		"d_cidade": {"Santos"},
		"cidade":   {"Campinas"},
	}

	f := FiltersFromValues(v, "d_")

	assert.Equal(t, Filters{Estado: "SP", Cidade: "Santos"}, f)
}

func TestFiltersFromValues_TextKeptVerbatim(t *testing.T) {
	v := url.Values{
		"cupom":      {" 12 "},
		"cidade":     {"São  Paulo "},
		"dataInicio": {" 2025-06-01 "},
		"dataFim":    {"2025-06-30\n"},
	}

	f := FiltersFromValues(v, "")

	assert.Equal(t, " 12 ", f.Cupom)
	assert.Equal(t, "São  Paulo ", f.Cidade)
	assert.Equal(t, "2025-06-01", f.DataInicio)
	assert.Equal(t, "2025-06-30", f.DataFim)
}

func TestSanitize(t *testing.T) {
	ok := Filters{DataInicio: "2025-06-01", DataFim: "2025-06-30"}
	got, err := ok.Sanitize()
	require.NoError(t, err)
	assert.Equal(t, ok, got)

	bad := Filters{DataInicio: "01/06/2025", DataFim: "2025-06-30", Cupom: "1"}
	got, err = bad.Sanitize()
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, Filters{DataFim: "2025-06-30", Cupom: "1"}, got)
}

func TestTotalPagesFor(t *testing.T) {
	assert.Equal(t, 0, TotalPagesFor(0))
	assert.Equal(t, 1, TotalPagesFor(20))
	assert.Equal(t, 2, TotalPagesFor(21))
}

func TestNormalizeUF(t *testing.T) {
	uf, ok := NormalizeUF("sp")
	assert.True(t, ok)
	assert.Equal(t, "SP", uf)

	for _, bad := range []string{"", "S", "SPX", "1A", "São"} {
		_, ok := NormalizeUF(bad)
		assert.False(t, ok, bad)
	}
}
