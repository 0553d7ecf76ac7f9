package models

import "strings"

// PageSize is the number of purchases the API returns per page. It is
// only used to derive totalPages when the API omits it.
const PageSize = 20

type Stats struct {
	TotalCupons    int   `json:"totalCupons"`
	ClientesUnicos int   `json:"quantidadeClientesUnicos"`
	Lojas          int   `json:"quantidadeLojas"`
	ValorTotal     int64 `json:"valorTotal"`
}

type ComprasPage struct {
	Compras    []Compra `json:"compras"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
	Stats      *Stats   `json:"stats,omitempty"`
}

// TotalPagesFor returns ceil(total/PageSize).
func TotalPagesFor(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

type Estado struct {
	ID    int    `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

// NormalizeUF upper-cases a two-letter state code and reports whether s
// is one.
func NormalizeUF(s string) (string, bool) {
	if len(s) != 2 {
		return "", false
	}
	uf := strings.ToUpper(s)
	for _, r := range uf {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return uf, true
}

type Municipio struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}
