package models

import "time"

type Cupom struct {
	ID     string `json:"_id"`
	Numero string `json:"numero"`
}

type Loja struct {
	ID   string `json:"_id"`
	Nome string `json:"nome"`
}

type Produto struct {
	ID   string `json:"_id"`
	Nome string `json:"nome"`
}

type Cliente struct {
	ID             string `json:"_id"`
	Nome           string `json:"nome"`
	CpfCnpj        string `json:"cpf_cnpj"`
	DataNascimento string `json:"data_nascimento"`
	Telefone       string `json:"telefone"`
	Email          string `json:"email"`
	Cidade         string `json:"cidade"`
}

// Compra is one purchase as returned by the purchases API. Valor is in
// cents and a purchase may carry any number of coupons, including none.
type Compra struct {
	ID        string    `json:"_id"`
	Valor     int64     `json:"valor"`
	Loja      Loja      `json:"loja"`
	Cidade    string    `json:"cidade"`
	Estado    string    `json:"estado"`
	Produtos  []Produto `json:"produtos"`
	Cupons    []Cupom   `json:"cupons"`
	Cliente   Cliente   `json:"cliente"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CupomRow is the flattened table row: one coupon plus the fields it
// shares with its purchase.
type CupomRow struct {
	CompraID string    `json:"compraId"`
	Cliente  Cliente   `json:"cliente"`
	Loja     Loja      `json:"loja"`
	Cidade   string    `json:"cidade"`
	Estado   string    `json:"estado"`
	Produtos []Produto `json:"produtos"`
	Cupom    Cupom     `json:"cupom"`
	Valor    int64     `json:"valor"`
	Data     time.Time `json:"data"`
}
