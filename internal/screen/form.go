package screen

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/cancha-platform/cancha-admin/internal/auth"
	"github.com/cancha-platform/cancha-admin/internal/cancha"
)

// Mode is the state of the form state machine.
type Mode string

const (
	// ModeClosed means no form is open.
	ModeClosed Mode = "closed"
	// ModeCreate stages a new record.
	ModeCreate Mode = "create"
	// ModeEdit stages changes to an existing record.
	ModeEdit Mode = "edit"
	// ModeView shows an existing record read-only.
	ModeView Mode = "view"
)

// Form is the staging state machine of one entity record: a mutable draft
// of field values plus validation errors, moving between closed, create,
// edit and view. A view form never reaches the network.
type Form struct {
	schema *Schema
	perms  auth.Permissions

	mode    Mode
	values  map[string]string
	initial map[string]string // loaded values, for changed-field detection
	keys    []string          // target record key path segments (edit/view)

	fieldErrs map[string]string
	err       string

	validate *validator.Validate
}

// NewForm creates a closed form for the schema under the given permissions.
func NewForm(schema *Schema, perms auth.Permissions) *Form {
	return &Form{
		schema:    schema,
		perms:     perms,
		mode:      ModeClosed,
		values:    map[string]string{},
		initial:   map[string]string{},
		fieldErrs: map[string]string{},
		validate:  validator.New(),
	}
}

// Mode returns the current form mode.
func (f *Form) Mode() Mode { return f.mode }

// Values returns the current draft values.
func (f *Form) Values() map[string]string { return f.values }

// Keys returns the key path segments of the targeted record.
func (f *Form) Keys() []string { return f.keys }

// FieldErrors returns per-field validation messages from the last Validate.
func (f *Form) FieldErrors() map[string]string { return f.fieldErrs }

// Error returns the form-scoped error message, if any.
func (f *Form) Error() string { return f.err }

// SetError places a form-scoped message, e.g. a backend failure.
func (f *Form) SetError(msg string) { f.err = msg }

// ReadOnly reports whether the form fields must not be editable.
func (f *Form) ReadOnly() bool { return f.mode == ModeView }

// OpenCreate resets the draft to blank defaults and enters create mode.
func (f *Form) OpenCreate() error {
	if !f.perms.CanCreate {
		return ErrPermissionDenied
	}

	f.reset(ModeCreate)

	for _, field := range f.schema.Fields {
		f.values[field.Name] = ""
	}

	return nil
}

// OpenEdit populates the draft from an existing row and enters edit mode.
func (f *Form) OpenEdit(row cancha.Row) error {
	if !f.perms.CanEdit {
		return ErrPermissionDenied
	}

	return f.open(ModeEdit, row)
}

// OpenView populates the draft from an existing row read-only.
func (f *Form) OpenView(row cancha.Row) error {
	if !f.perms.CanView {
		return ErrPermissionDenied
	}

	return f.open(ModeView, row)
}

func (f *Form) open(mode Mode, row cancha.Row) error {
	keys, err := f.schema.KeyValues(row)
	if err != nil {
		return err
	}

	f.reset(mode)
	f.keys = keys

	for _, field := range f.schema.Fields {
		value := FormatValue(row[field.Name])
		f.values[field.Name] = value
		f.initial[field.Name] = value
	}

	return nil
}

func (f *Form) reset(mode Mode) {
	f.mode = mode
	f.values = map[string]string{}
	f.initial = map[string]string{}
	f.keys = nil
	f.fieldErrs = map[string]string{}
	f.err = ""
}

// UpdateField mutates one draft value. It is a no-op in view mode, when
// closed, and for fields the schema does not declare.
func (f *Form) UpdateField(name, value string) {
	if f.mode == ModeView || f.mode == ModeClosed {
		return
	}

	if f.schema.Field(name) == nil {
		return
	}

	f.values[name] = value
}

// Close discards the draft and all transient errors.
func (f *Form) Close() {
	f.reset(ModeClosed)
}

// Validate runs the client-side checks: required fields, numeric ranges,
// enumerated value membership and the schema's cross-field checks.
// It returns true when the draft may be submitted; otherwise field errors
// and the form error are set and no network call must be made.
func (f *Form) Validate() bool {
	f.fieldErrs = map[string]string{}
	f.err = ""

	for i := range f.schema.Fields {
		field := &f.schema.Fields[i]
		value := f.values[field.Name]

		if field.Required && field.Kind != KindFile {
			if err := f.validate.Var(value, "required"); err != nil {
				f.fieldErrs[field.Name] = fmt.Sprintf("El campo %s es obligatorio", field.Label)
				continue
			}
		}

		if value == "" {
			continue
		}

		switch field.Kind {
		case KindNumber:
			num, err := strconv.ParseFloat(value, 64)
			if err != nil {
				f.fieldErrs[field.Name] = fmt.Sprintf("El campo %s debe ser numérico", field.Label)
				continue
			}

			if field.Min != nil && num < *field.Min {
				f.fieldErrs[field.Name] = fmt.Sprintf("El campo %s no puede ser menor a %s",
					field.Label, strconv.FormatFloat(*field.Min, 'f', -1, 64))
			}

			if field.Max != nil && num > *field.Max {
				f.fieldErrs[field.Name] = fmt.Sprintf("El campo %s no puede ser mayor a %s",
					field.Label, strconv.FormatFloat(*field.Max, 'f', -1, 64))
			}
		case KindSelect:
			if !field.HasOption(value) {
				f.fieldErrs[field.Name] = fmt.Sprintf("Valor no válido para %s", field.Label)
			}
		}
	}

	if len(f.fieldErrs) > 0 {
		f.err = "Por favor corrija los campos marcados"

		return false
	}

	for _, check := range f.schema.Checks {
		if !check.Fn(f.values) {
			f.err = check.Message

			return false
		}
	}

	return true
}

// Payload builds the JSON body of a submit: only fields that are non-empty
// or required are sent, numbers as numbers. Read-only and file fields are
// never part of the JSON payload.
func (f *Form) Payload() map[string]any {
	out := map[string]any{}

	for i := range f.schema.Fields {
		field := &f.schema.Fields[i]
		if field.ReadOnly || field.Kind == KindFile {
			continue
		}

		value := f.values[field.Name]
		if value == "" && !field.Required {
			continue
		}

		if field.Kind == KindNumber {
			if num, err := strconv.ParseFloat(value, 64); err == nil {
				out[field.Name] = num
				continue
			}
		}

		out[field.Name] = value
	}

	return out
}

// ChangedFields returns the draft values that differ from the loaded
// record, for multipart updates that must only attach what changed.
func (f *Form) ChangedFields() map[string]string {
	out := map[string]string{}

	for i := range f.schema.Fields {
		field := &f.schema.Fields[i]
		if field.ReadOnly || field.Kind == KindFile {
			continue
		}

		value := f.values[field.Name]
		if f.mode == ModeCreate {
			if value != "" || field.Required {
				out[field.Name] = value
			}

			continue
		}

		if value != f.initial[field.Name] {
			out[field.Name] = value
		}
	}

	return out
}

// Submit validates the draft and sends it to the backend: POST in create
// mode, PATCH in edit mode. In view mode, when closed, or without the
// permission for the current mode, nothing is sent and ErrSubmitNotAllowed
// is returned. Validation failures abort with ErrValidationFailed before
// any network call; the messages stay on the form. A backend failure
// message is placed on the form and returned as is.
func (f *Form) Submit(ctx context.Context, client *cancha.Client, uploads []cancha.Upload) error {
	switch f.mode {
	case ModeCreate:
		if !f.perms.CanCreate {
			return ErrSubmitNotAllowed
		}
	case ModeEdit:
		if !f.perms.CanEdit {
			return ErrSubmitNotAllowed
		}
	default:
		return ErrSubmitNotAllowed
	}

	if !f.Validate() {
		return ErrValidationFailed
	}

	var err error

	multipart := f.schema.HasFileFields()

	switch {
	case f.mode == ModeCreate && multipart:
		err = client.CreateMultipart(ctx, f.schema.Resource, f.ChangedFields(), uploads)
	case f.mode == ModeCreate:
		err = client.Create(ctx, f.schema.Resource, f.Payload())
	case multipart:
		err = client.PatchMultipart(ctx, f.schema.Resource, f.ChangedFields(), uploads, f.keys...)
	default:
		err = client.Patch(ctx, f.schema.Resource, f.Payload(), f.keys...)
	}

	if err != nil {
		f.err = cancha.Message(err, "No se pudo guardar el registro")

		return err
	}

	f.Close()

	return nil
}
