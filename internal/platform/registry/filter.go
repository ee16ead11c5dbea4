package registry

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/cases"

	"github.com/labsuite/labsuite/internal/platform/store"
)

// All disables a categorical or status criterion.
const All = "all"

// Filter is the state of a list screen's search box and dropdowns.
type Filter struct {
	Query      string            `json:"q"`
	Categories map[string]string `json:"categories,omitempty"`
	Status     string            `json:"status"`
}

func enabled(v string) bool {
	return v != "" && v != All
}

// Matches reports whether e passes every enabled criterion. The query is a
// case-insensitive substring test against code and label.
func (f Filter) Matches(e Entity) bool {
	rec := e.GetRecord()
	if enabled(f.Status) && string(rec.Status) != f.Status {
		return false
	}
	if len(f.Categories) > 0 {
		cats := e.Categories()
		for k, v := range f.Categories {
			if enabled(v) && cats[k] != v {
				return false
			}
		}
	}
	q := strings.TrimSpace(f.Query)
	if q == "" {
		return true
	}
	// A Caser keeps state and is not safe for concurrent use.
	fold := cases.Fold()
	q = fold.String(q)
	return strings.Contains(fold.String(rec.Code), q) || strings.Contains(fold.String(rec.Label), q)
}

// Apply returns the items that match f, in their original order. items is
// never modified.
func Apply[T Entity](items []T, f Filter) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// StoreQuery is the part of f a store can evaluate as exact matches.
func (f Filter) StoreQuery() store.Query {
	q := store.Query{}
	if enabled(f.Status) {
		q.Status = f.Status
	}
	for k, v := range f.Categories {
		if !enabled(v) {
			continue
		}
		if q.Categories == nil {
			q.Categories = make(map[string]string)
		}
		q.Categories[k] = v
	}
	return q
}

// FilterFromContext reads q, status and one parameter per category key.
func FilterFromContext(c echo.Context, categoryKeys []string) (Filter, error) {
	f := Filter{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
	}
	if enabled(f.Status) {
		if _, err := ParseStatus(f.Status); err != nil {
			return Filter{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	for _, k := range categoryKeys {
		if v := c.QueryParam(k); v != "" {
			if f.Categories == nil {
				f.Categories = make(map[string]string)
			}
			f.Categories[k] = v
		}
	}
	return f, nil
}
