// Package format renders API values the way the dashboard shows them:
// Brazilian real amounts, CPF/CNPJ punctuation and pt-BR dates.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var lang = language.BrazilianPortuguese

// Currency formats an amount in cents as BRL, e.g. 1000 -> "R$ 10,00".
// Only the integer part goes through the locale printer, for grouping;
// the cents are taken from the decimal so no precision is lost.
func Currency(cents int64) string {
	amount := decimal.New(cents, -2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	fixed := amount.StringFixed(2)
	p := message.NewPrinter(lang)
	return sign + "R$ " + p.Sprintf("%v", number.Decimal(amount.IntPart())) + "," + fixed[len(fixed)-2:]
}

// Count formats an integer with pt-BR digit grouping.
func Count(n int) string {
	return message.NewPrinter(lang).Sprintf("%v", number.Decimal(n))
}

// CpfCnpj punctuates an 11-digit CPF or a 14-digit CNPJ. Any other
// length is returned unchanged.
func CpfCnpj(s string) string {
	if !digitsOnly(s) {
		return s
	}
	switch len(s) {
	case 11:
		return s[0:3] + "." + s[3:6] + "." + s[6:9] + "-" + s[9:11]
	case 14:
		return s[0:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:14]
	}
	return s
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Date renders t as DD/MM/YYYY in loc (UTC when nil).
func Date(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006")
}

// FileName is the last path segment of a download URL.
func FileName(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
