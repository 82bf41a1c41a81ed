package screen

import (
	"fmt"

	"github.com/cancha-platform/cancha-admin/internal/cancha"
)

// Cell is one rendered table cell.
type Cell struct {
	Field string
	Value string
}

// TableRow is one rendered list row: display cells plus the key path that
// addresses the record in detail, edit and delete links.
type TableRow struct {
	Keys  []string
	Cells []Cell
}

// ListView is everything the list template needs: the rendered rows, the
// pagination line and the navigation flags.
type ListView struct {
	Title   string
	Slug    string
	Columns []string
	Rows    []TableRow

	Search string
	Filter string
	Err    string

	Page       int
	TotalPages int
	Total      int
}

// BuildListView projects a list snapshot through the schema into rendered
// rows. Rows whose key fields are missing are skipped rather than breaking
// the whole table.
func BuildListView(schema *Schema, snap Snapshot) ListView {
	view := ListView{
		Title:      schema.Title,
		Slug:       schema.Slug,
		Columns:    make([]string, 0, len(schema.ListFields)),
		Search:     snap.Query.Search,
		Filter:     snap.Query.Filter,
		Err:        snap.Err,
		Page:       snap.Query.Page,
		TotalPages: cancha.Pages(snap.Total, snap.Query.PageSize),
		Total:      snap.Total,
	}

	if view.Page < 1 {
		view.Page = 1
	}

	for _, name := range schema.ListFields {
		label := name
		if field := schema.Field(name); field != nil {
			label = field.Label
		}

		view.Columns = append(view.Columns, label)
	}

	for _, row := range snap.Rows {
		keys, err := schema.KeyValues(row)
		if err != nil {
			continue
		}

		rendered := TableRow{Keys: keys, Cells: make([]Cell, 0, len(schema.ListFields))}
		for _, name := range schema.ListFields {
			rendered.Cells = append(rendered.Cells, Cell{Field: name, Value: FormatValue(row[name])})
		}

		view.Rows = append(view.Rows, rendered)
	}

	return view
}

// PageLabel renders the pagination line, e.g. "Página 2 de 5".
func (v ListView) PageLabel() string {
	return fmt.Sprintf("Página %d de %d", v.Page, v.TotalPages)
}

// HasPrev reports whether a previous page exists.
func (v ListView) HasPrev() bool { return v.Page > 1 }

// HasNext reports whether a following page exists.
func (v ListView) HasNext() bool { return v.Page < v.TotalPages }

// PrevPage returns the previous page number, clamped at 1.
func (v ListView) PrevPage() int {
	if v.Page <= 1 {
		return 1
	}

	return v.Page - 1
}

// NextPage returns the following page number, clamped at the last page.
func (v ListView) NextPage() int {
	if v.Page >= v.TotalPages {
		return v.TotalPages
	}

	return v.Page + 1
}
