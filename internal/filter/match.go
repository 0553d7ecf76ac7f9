package filter

import (
	"strings"
	"time"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

const isoDate = "2006-01-02"

// Match is the offline evaluator: every non-empty field must hold.
// Text fields are case-insensitive substrings; the coupon field passes
// when any coupon number contains it; dates bound createdAt inclusively
// from the start of dataInicio to the end of dataFim in loc.
func Match(c models.Compra, f models.Filters, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	if !containsIgnoreCase(c.Cidade, f.Cidade) {
		return false
	}
	if !containsIgnoreCase(c.Estado, f.Estado) {
		return false
	}
	if f.Loja != "" && !containsIgnoreCase(c.Loja.Nome, f.Loja) && !strings.EqualFold(c.Loja.ID, f.Loja) {
		return false
	}
	if f.Cupom != "" && !anyCupom(c.Cupons, f.Cupom) {
		return false
	}
	if f.DataInicio != "" {
		start, err := time.ParseInLocation(isoDate, f.DataInicio, loc)
		if err == nil && c.CreatedAt.Before(start) {
			return false
		}
	}
	if f.DataFim != "" {
		day, err := time.ParseInLocation(isoDate, f.DataFim, loc)
		if err == nil {
			end := day.AddDate(0, 0, 1).Add(-time.Millisecond)
			if c.CreatedAt.After(end) {
				return false
			}
		}
	}
	return true
}

func anyCupom(cupons []models.Cupom, substr string) bool {
	for _, cp := range cupons {
		if containsIgnoreCase(cp.Numero, substr) {
			return true
		}
	}
	return false
}

func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
