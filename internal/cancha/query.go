package cancha

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the default number of rows per page.
	DefaultPageSize = 10

	// MaxPageSize caps the rows per page a screen may request.
	MaxPageSize = 100

	listPath   = "/datos-especificos"
	searchPath = "/buscar"
	filterPath = "/filtro"
)

// PageQuery describes one paginated list request.
// A non-empty Search takes priority over Filter; with neither set the
// plain list endpoint is used.
type PageQuery struct {
	Search   string
	Filter   string
	Page     int
	PageSize int

	// Scope holds fixed query parameters a screen always sends,
	// e.g. the signed-in venue manager's own id.
	Scope url.Values
}

// Normalize clamps the page and page size. A zero defaultSize falls back
// to DefaultPageSize.
func (q PageQuery) Normalize(defaultSize int) PageQuery {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}

	if q.Page < 1 {
		q.Page = 1
	}

	if q.PageSize < 1 {
		q.PageSize = defaultSize
	}

	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	q.Search = strings.TrimSpace(q.Search)

	return q
}

// Offset returns the zero-based row offset for the current page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Endpoint returns the list endpoint suffix and query parameters for this
// query shape. Exactly one endpoint is selected per call.
func (q PageQuery) Endpoint() (string, url.Values) {
	vals := url.Values{}

	for name, values := range q.Scope {
		for _, v := range values {
			vals.Add(name, v)
		}
	}

	vals.Set("limit", strconv.Itoa(q.PageSize))
	vals.Set("offset", strconv.Itoa(q.Offset()))

	switch {
	case q.Search != "":
		vals.Set("q", q.Search)
		return searchPath, vals
	case q.Filter != "":
		vals.Set("tipo", q.Filter)
		return filterPath, vals
	default:
		return listPath, vals
	}
}

// Pages computes the page count from a total row count.
// It is never less than 1 so empty lists still render "Página 1 de 1".
func Pages(total, pageSize int) int {
	if pageSize < 1 {
		return 1
	}

	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}

	return pages
}
