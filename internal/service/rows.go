package service

import "github.com/Cheertaboi/coupon-dashboard/internal/models"

// ProjectRows flattens purchases into one row per coupon, in purchase
// order and then coupon order. Purchases without coupons yield no rows.
func ProjectRows(compras []models.Compra) []models.CupomRow {
	n := 0
	for _, c := range compras {
		n += len(c.Cupons)
	}
	rows := make([]models.CupomRow, 0, n)
	for _, c := range compras {
		for _, cupom := range c.Cupons {
			rows = append(rows, models.CupomRow{
				CompraID: c.ID,
				Cliente:  c.Cliente,
				Loja:     c.Loja,
				Cidade:   c.Cidade,
				Estado:   c.Estado,
				Produtos: c.Produtos,
				Cupom:    cupom,
				Valor:    c.Valor,
				Data:     c.CreatedAt,
			})
		}
	}
	return rows
}

// ComputeStats summarizes a list of purchases for the stats cards.
func ComputeStats(compras []models.Compra) models.Stats {
	var st models.Stats
	clientes := make(map[string]struct{})
	lojas := make(map[string]struct{})
	for _, c := range compras {
		st.TotalCupons += len(c.Cupons)
		st.ValorTotal += c.Valor
		clientes[c.Cliente.ID] = struct{}{}
		lojas[c.Loja.ID] = struct{}{}
	}
	st.ClientesUnicos = len(clientes)
	st.Lojas = len(lojas)
	return st
}

// StatsFor prefers the totals computed by the API, which cover every
// page, over the ones derived from the current page.
func StatsFor(p *models.ComprasPage) models.Stats {
	if p == nil {
		return models.Stats{}
	}
	if p.Stats != nil {
		return *p.Stats
	}
	return ComputeStats(p.Compras)
}
