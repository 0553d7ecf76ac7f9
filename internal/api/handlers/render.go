package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Cheertaboi/coupon-dashboard/internal/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// ParseTemplates loads the dashboard pages. Dates are shown in loc.
func ParseTemplates(loc *time.Location) (*template.Template, error) {
	funcs := template.FuncMap{
		"currency": format.Currency,
		"count":    format.Count,
		"cpfcnpj":  format.CpfCnpj,
		"filename": format.FileName,
		"date":     func(t time.Time) string { return format.Date(t, loc) },
		"inc":      func(i int) int { return i + 1 },
		"dict":     dict,
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToStatus(err), map[string]string{"error": errorMessage(err)})
}

// renderHTML executes name into a buffer first so a template failure
// still produces a clean 500.
func renderHTML(w http.ResponseWriter, log *slog.Logger, tmpl *template.Template, code int, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
