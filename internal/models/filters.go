package models

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field names double as query parameter names on the purchases API.
type Field string

const (
	FieldCidade     Field = "cidade"
	FieldEstado     Field = "estado"
	FieldCupom      Field = "cupom"
	FieldLoja       Field = "loja"
	FieldDataInicio Field = "dataInicio"
	FieldDataFim    Field = "dataFim"
)

var Fields = []Field{FieldCidade, FieldEstado, FieldCupom, FieldLoja, FieldDataInicio, FieldDataFim}

var validate = validator.New()

// Filters is an immutable snapshot of the filter bar. The zero value
// matches everything.
type Filters struct {
	Cidade     string `json:"cidade"`
	Estado     string `json:"estado"`
	Cupom      string `json:"cupom"`
	Loja       string `json:"loja"`
	DataInicio string `json:"dataInicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim    string `json:"dataFim" validate:"omitempty,datetime=2006-01-02"`
}

func (f Filters) Get(field Field) string {
	switch field {
	case FieldCidade:
		return f.Cidade
	case FieldEstado:
		return f.Estado
	case FieldCupom:
		return f.Cupom
	case FieldLoja:
		return f.Loja
	case FieldDataInicio:
		return f.DataInicio
	case FieldDataFim:
		return f.DataFim
	}
	return ""
}

// With returns a copy of f with field set to value. Changing the state
// clears the city, since the city list depends on the selected state.
func (f Filters) With(field Field, value string) Filters {
	switch field {
	case FieldCidade:
		f.Cidade = value
	case FieldEstado:
		if value != f.Estado {
			f.Cidade = ""
		}
		f.Estado = value
	case FieldCupom:
		f.Cupom = value
	case FieldLoja:
		f.Loja = value
	case FieldDataInicio:
		f.DataInicio = value
	case FieldDataFim:
		f.DataFim = value
	}
	return f
}

// Clear returns the empty snapshot.
func (Filters) Clear() Filters {
	return Filters{}
}

func (f Filters) HasActive() bool {
	return f != Filters{}
}

// Values holds the non-empty fields only.
func (f Filters) Values() url.Values {
	v := url.Values{}
	for _, field := range Fields {
		if s := f.Get(field); s != "" {
			v.Set(string(field), s)
		}
	}
	return v
}

// Query is the parameter set sent to the purchases API for one page.
func (f Filters) Query(page int) url.Values {
	v := f.Values()
	v.Set("page", strconv.Itoa(page))
	return v
}

// Key identifies (filters, page) for caching. url.Values.Encode sorts
// keys, so equal snapshots give equal keys.
func (f Filters) Key(page int) string {
	return f.Query(page).Encode()
}

// Validate checks that the date bounds are ISO dates.
func (f Filters) Validate() error {
	return validate.Struct(f)
}

// FiltersFromValues reads the fields stored under prefix+name. Text
// fields are kept verbatim; only the date bounds are trimmed.
func FiltersFromValues(v url.Values, prefix string) Filters {
	get := func(field Field) string {
		return v.Get(prefix + string(field))
	}
	return Filters{
		Cidade:     get(FieldCidade),
		Estado:     get(FieldEstado),
		Cupom:      get(FieldCupom),
		Loja:       get(FieldLoja),
		DataInicio: strings.TrimSpace(get(FieldDataInicio)),
		DataFim:    strings.TrimSpace(get(FieldDataFim)),
	}
}

// ErrInvalidDate is returned by Sanitize when a date bound was dropped.
var ErrInvalidDate = errors.New("data inválida, use o formato AAAA-MM-DD")

// Sanitize blanks date bounds that are not ISO dates and reports it.
func (f Filters) Sanitize() (Filters, error) {
	if err := f.Validate(); err == nil {
		return f, nil
	}
	probe := Filters{DataInicio: f.DataInicio}
	if probe.Validate() != nil {
		f.DataInicio = ""
	}
	probe = Filters{DataFim: f.DataFim}
	if probe.Validate() != nil {
		f.DataFim = ""
	}
	return f, ErrInvalidDate
}
