package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/Cheertaboi/coupon-dashboard/internal/filter"
	"github.com/Cheertaboi/coupon-dashboard/internal/models"
	"github.com/Cheertaboi/coupon-dashboard/internal/pagination"
	"github.com/Cheertaboi/coupon-dashboard/internal/service"
)

const (
	viewerCookie = "viewer_id"
	draftPrefix  = "f_"
	dateErrParam = "erro"
)

// Lookups provides the filter bar option lists.
type Lookups interface {
	Options(ctx context.Context, uf string) service.Options
	Lojas(ctx context.Context) []models.Loja
	Estados(ctx context.Context) []models.Estado
	Municipios(ctx context.Context, uf string) []models.Municipio
}

type Exporter interface {
	Export(ctx context.Context, f models.Filters) ([]string, error)
	InProgress(f models.Filters) bool
}

type DashboardHandler struct {
	pages   service.PageLoader
	lookups Lookups
	exports Exporter
	views   *service.ViewRegistry
	tmpl    *template.Template
	log     *slog.Logger
}

func NewDashboardHandler(pages service.PageLoader, lookups Lookups, exports Exporter, views *service.ViewRegistry, tmpl *template.Template, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		pages:   pages,
		lookups: lookups,
		exports: exports,
		views:   views,
		tmpl:    tmpl,
		log:     log,
	}
}

type dashboardPage struct {
	Session   filter.Session
	Hidden    url.Values
	Options   service.Options
	Rows      []models.CupomRow
	Stats     models.Stats
	Pager     pagination.Pager
	Summary   *summary
	Exporting bool
	LoadError string
	DateError string
}

// summary is the "Mostrando n de total" line under the table.
type summary struct {
	Shown int
	Total int
}

// PageURL links to page n keeping the filters.
func (p dashboardPage) PageURL(n int) string {
	return "/?" + p.Session.GoTo(n).Values().Encode()
}

// ExportURL carries the page too, so the export page can link back to it.
func (p dashboardPage) ExportURL() string {
	return "/export?" + p.Session.Applied.Query(p.Session.Page).Encode()
}

// Index handles GET /
// renders the applied filters' page of coupons plus the draft filter bar
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess := filter.FromValues(r.URL.Query())

	data := dashboardPage{}
	if applied, err := sess.Applied.Sanitize(); err != nil {
		sess.Applied = applied
		sess.Draft, _ = sess.Draft.Sanitize()
		data.DateError = err.Error()
	}
	if r.URL.Query().Get(dateErrParam) == "data" {
		data.DateError = models.ErrInvalidDate.Error()
	}

	view := h.views.Get(h.viewerID(w, r))
	snap, err := view.Load(r.Context(), h.pages, sess.Applied, sess.Page)
	if errors.Is(err, service.ErrSuperseded) {
		// a newer load of this viewer won; show its result instead
		snap = view.Current()
		if snap.Generation == 0 {
			http.Error(w, "consulta substituída por uma mais recente", http.StatusConflict)
			return
		}
		sess = filter.New(snap.Filters, snap.Page)
	}
	data.Session = sess
	data.Hidden = formState(sess)
	data.Exporting = h.exports.InProgress(sess.Applied)

	uf, _ := models.NormalizeUF(sess.Draft.Estado)
	data.Options = h.lookups.Options(r.Context(), uf)
	if snap.Err != nil {
		h.log.Error("load compras", slog.String("query", sess.Applied.Key(sess.Page)), slog.Any("error", snap.Err))
		data.LoadError = errorMessage(snap.Err)
		data.Pager = pagination.New(sess.Page, 0)
	} else {
		data.Rows = service.ProjectRows(snap.Result.Compras)
		data.Stats = service.StatsFor(snap.Result)
		data.Pager = pagination.New(snap.Result.Page, snap.Result.TotalPages)
		data.Summary = &summary{Shown: len(snap.Result.Compras), Total: snap.Result.Total}
	}

	renderHTML(w, h.log, h.tmpl, http.StatusOK, "dashboard.html", data)
}

// ApplyFilters handles POST /filters
// replays the posted draft onto the session, runs the requested
// transition and redirects back to the dashboard
func (h *DashboardHandler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}

	sess := filter.FromValues(r.PostForm)
	sess = sess.EditAll(models.FiltersFromValues(r.PostForm, draftPrefix))

	extra := ""
	switch r.PostForm.Get("action") {
	case "search":
		if err := sess.Draft.Validate(); err != nil {
			extra = "&" + dateErrParam + "=data"
			break
		}
		sess = sess.Commit()
	case "clear":
		sess = sess.Clear()
	}

	http.Redirect(w, r, "/?"+sess.Values().Encode()+extra, http.StatusSeeOther)
}

// Export handles GET /export
// exports the applied filters and lists the download links
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess := filter.FromValues(r.URL.Query())
	applied := sess.Applied
	data := struct {
		URLs    []string
		Error   string
		BackURL string
	}{BackURL: "/?" + filter.New(applied, sess.Page).Values().Encode()}

	code := http.StatusOK
	urls, err := h.exports.Export(r.Context(), applied)
	if err != nil {
		code = mapErrorToStatus(err)
		data.Error = errorMessage(err)
	}
	data.URLs = urls

	renderHTML(w, h.log, h.tmpl, code, "export.html", data)
}

// viewerID returns the id stored in the viewer cookie, issuing one when
// missing.
func (h *DashboardHandler) viewerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(viewerCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     viewerCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// formState is what the filter form carries in hidden fields: the
// applied filters, the page and the draft as it was rendered.
func formState(s filter.Session) url.Values {
	v := s.Applied.Values()
	v.Set("page", strconv.Itoa(s.Page))
	for _, field := range models.Fields {
		v.Set(filter.DraftPrefix+string(field), s.Draft.Get(field))
	}
	return v
}
