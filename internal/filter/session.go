package filter

import (
	"net/url"
	"strconv"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

// DraftPrefix marks draft fields in URLs and forms.
const DraftPrefix = "d_"

// Session holds the two filter states of the dashboard: Draft is what
// the user is editing, Applied is what the table shows. Only Commit
// and Clear move the draft into the applied state.
type Session struct {
	Draft   models.Filters
	Applied models.Filters
	Page    int
}

func New(applied models.Filters, page int) Session {
	return Session{Draft: applied, Applied: applied, Page: normalizePage(page)}
}

// Edit changes one draft field; Applied and Page are untouched.
func (s Session) Edit(field models.Field, value string) Session {
	s.Draft = s.Draft.With(field, value)
	return s
}

// EditAll replays a posted draft onto the session. The state is applied
// last so that a changed state still clears the city.
func (s Session) EditAll(posted models.Filters) Session {
	for _, field := range models.Fields {
		if field == models.FieldEstado {
			continue
		}
		s = s.Edit(field, posted.Get(field))
	}
	return s.Edit(models.FieldEstado, posted.Estado)
}

// Commit applies the draft and goes back to the first page.
func (s Session) Commit() Session {
	s.Applied = s.Draft
	s.Page = 1
	return s
}

// Clear empties both states and goes back to the first page.
func (s Session) Clear() Session {
	return Session{Draft: s.Draft.Clear(), Applied: s.Applied.Clear(), Page: 1}
}

func (s Session) GoTo(page int) Session {
	s.Page = normalizePage(page)
	return s
}

// Dirty reports whether the draft has edits not yet applied.
func (s Session) Dirty() bool {
	return s.Draft != s.Applied
}

// Values encodes the session for the dashboard URL: applied fields and
// page as plain parameters, draft fields prefixed only when dirty.
func (s Session) Values() url.Values {
	v := s.Applied.Query(normalizePage(s.Page))
	if s.Dirty() {
		for _, field := range models.Fields {
			v.Set(DraftPrefix+string(field), s.Draft.Get(field))
		}
	}
	return v
}

// FromValues is the inverse of Values. When no draft parameter is
// present the draft equals the applied state.
func FromValues(v url.Values) Session {
	page, _ := strconv.Atoi(v.Get("page"))
	s := New(models.FiltersFromValues(v, ""), page)
	for _, field := range models.Fields {
		if _, ok := v[DraftPrefix+string(field)]; ok {
			s.Draft = models.FiltersFromValues(v, DraftPrefix)
			break
		}
	}
	return s
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
