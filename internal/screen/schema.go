// Package screen implements the generic entity screen used by every CRUD
// page of the console: a schema descriptor per entity, a paginated list
// state guarded against stale responses, and a form state machine for
// create/edit/view. The concrete Cancha entities are declared in the
// catalog and rendered by the web layer; this package owns the behavior.
package screen

import (
	"fmt"
	"strconv"

	"github.com/cancha-platform/cancha-admin/internal/auth"
	"github.com/cancha-platform/cancha-admin/internal/cancha"
)

// FieldKind selects the input widget and the validation family of a field.
type FieldKind string

const (
	// KindText is a single line text input.
	KindText FieldKind = "text"
	// KindTextarea is a multi line text input.
	KindTextarea FieldKind = "textarea"
	// KindNumber is a numeric input validated against Min/Max.
	KindNumber FieldKind = "number"
	// KindSelect is an enumerated input validated against Options.
	KindSelect FieldKind = "select"
	// KindDate is a date input (YYYY-MM-DD).
	KindDate FieldKind = "date"
	// KindTime is a time input (HH:MM).
	KindTime FieldKind = "time"
	// KindFile is a file upload sent as a multipart part.
	KindFile FieldKind = "file"
)

// Option is one allowed value of a select field or list filter.
type Option struct {
	Value string
	Label string
}

// Field describes one form/table column of an entity.
type Field struct {
	Name     string // backend field name, e.g. "saldo_pendiente"
	Label    string // display label, e.g. "Saldo pendiente"
	Kind     FieldKind
	Required bool
	ReadOnly bool // shown but never sent, e.g. key columns on edit

	// Min/Max bound KindNumber values when set.
	Min *float64
	Max *float64

	// Options enumerate the allowed values of a KindSelect field.
	Options []Option
}

// HasOption reports whether the value is one of the allowed options.
func (f *Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}

	return false
}

// Check is a cross-field validation, e.g. "end time after start time".
// Fn returns true when the draft passes; Message is shown otherwise.
type Check struct {
	Name    string
	Message string
	Fn      func(values map[string]string) bool
}

// Schema describes one entity screen completely: identity, REST resource,
// fields, validation, filters and the per-role permission set.
type Schema struct {
	// Slug is the URL segment of the screen, e.g. "reserva".
	Slug string
	// Title is the plural screen title, e.g. "Reservas".
	Title string
	// TitleSingular names one record, e.g. "Reserva".
	TitleSingular string

	Resource cancha.Resource

	// Keys are the primary key field names, in path order.
	// Join table entities carry two.
	Keys []string

	Fields []Field
	Checks []Check

	// ListFields are the column names shown on the list table.
	ListFields []string

	// Filters are the allowed values of the typed filter endpoint.
	Filters []Option

	Permissions auth.PermissionSet

	// ScopeParam/ScopeProfileField define an always-present query parameter
	// filled from the signed-in user's profile, used by screens that only
	// show the manager's own records.
	ScopeParam        string
	ScopeProfileField string
}

// Field returns the named field, or nil.
func (s *Schema) Field(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}

	return nil
}

// HasFileFields reports whether the schema carries any upload field,
// which switches writes to multipart encoding.
func (s *Schema) HasFileFields() bool {
	for i := range s.Fields {
		if s.Fields[i].Kind == KindFile {
			return true
		}
	}

	return false
}

// HasFilter reports whether the value is one of the declared filters.
func (s *Schema) HasFilter(value string) bool {
	for _, opt := range s.Filters {
		if opt.Value == value {
			return true
		}
	}

	return false
}

// KeyValues extracts the primary key values of a row as path segments,
// in schema key order.
func (s *Schema) KeyValues(row cancha.Row) ([]string, error) {
	out := make([]string, 0, len(s.Keys))

	for _, key := range s.Keys {
		value, ok := row[key]
		if !ok {
			return nil, fmt.Errorf("row is missing key field %q", key)
		}

		out = append(out, FormatValue(value))
	}

	return out, nil
}

func parseNumber(value string) (float64, bool) {
	num, err := strconv.ParseFloat(value, 64)

	return num, err == nil
}

// FormatValue renders a decoded JSON value for display or as a path
// segment. Numbers lose the float artifacts of generic JSON decoding.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
