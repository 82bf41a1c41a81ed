// Package entity implements the generic CRUD screen. One Service instance
// is registered per catalog schema; all twelve entity pages share this
// handler and differ only in their schema descriptor.
package entity

import (
	"encoding/json"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cancha-platform/cancha-admin/internal/auth"
	"github.com/cancha-platform/cancha-admin/internal/cancha"
	"github.com/cancha-platform/cancha-admin/internal/config"
	"github.com/cancha-platform/cancha-admin/internal/screen"
	"github.com/cancha-platform/cancha-admin/internal/web/handler"
	"github.com/cancha-platform/cancha-admin/internal/web/navigation"
)

const (
	// ListTemplate renders the paginated table of one entity.
	ListTemplate = "entity/list"

	// FormTemplate renders the create/edit/view form of one entity.
	FormTemplate = "entity/form"

	// DeleteTemplate renders the delete confirmation page.
	DeleteTemplate = "entity/delete"
)

// Service is the handler of one entity screen.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	schema *screen.Schema
}

// New creates the handler for one catalog schema.
func New(schema *screen.Schema) *Service {
	return &Service{schema: schema}
}

// Init initializes the entity handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	if s.schema == nil {
		return errors.New("entity handler needs a schema")
	}

	s.cfg = cfg
	s.db = db

	keyPath := ""
	for i := range s.schema.Keys {
		keyPath += "/:key" + string(rune('1'+i))
	}

	app.Route("/"+s.schema.Slug, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Get("/new", s.New)
		router.Post("/new", s.Create)
		router.Get("/view"+keyPath, s.View)
		router.Get("/edit"+keyPath, s.Edit)
		router.Post("/edit"+keyPath, s.Update)
		router.Get("/delete"+keyPath, s.DeleteConfirm)
		router.Post("/delete"+keyPath, s.Delete)
	})

	return nil
}

// permissions resolves the request's role against this screen.
func (s *Service) permissions(c *fiber.Ctx) auth.Permissions {
	sess := handler.SessionData(c)
	role := auth.Resolve(sess.Profile, sess.Token, s.schema.Permissions)

	return s.schema.Permissions.For(role)
}

// client returns the backend client bound to the session token.
func (s *Service) client(c *fiber.Ctx) (*cancha.Client, error) {
	if cancha.Engine.Client == nil {
		return nil, cancha.ErrClientNotInitialized
	}

	return cancha.Engine.WithToken(handler.SessionData(c).Token), nil
}

// scope builds the fixed query parameters of scoped screens: venue
// managers only ever see their own records.
func (s *Service) scope(c *fiber.Ctx) url.Values {
	if s.schema.ScopeParam == "" {
		return nil
	}

	sess := handler.SessionData(c)

	role := auth.Resolve(sess.Profile, sess.Token, s.schema.Permissions)
	if role != auth.RoleAdminEspDep {
		return nil
	}

	value := profileValue(sess.Profile, s.schema.ScopeProfileField)
	if value == "" {
		return nil
	}

	return url.Values{s.schema.ScopeParam: {value}}
}

func (s *Service) nav(c *fiber.Ctx, title string) *navigation.Context {
	sess := handler.SessionData(c)

	return navigation.NewContext(title, s.schema.Slug).
		AddBreadcrumb("Inicio", "/dashboard", false).
		AddBreadcrumb(s.schema.Title, "/"+s.schema.Slug, true).
		WithMenu(sess.Profile, sess.Token)
}

func (s *Service) denied(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).Render(ListTemplate, fiber.Map{
		"Navigation": s.nav(c, s.schema.Title),
		"Perms":      auth.Permissions{},
		"View": screen.ListView{
			Title: s.schema.Title,
			Slug:  s.schema.Slug,
			Err:   "No tiene permisos para acceder a esta pantalla",
			Page:  1, TotalPages: 1,
		},
		"Schema": s.schema,
	}, handler.BaseLayout)
}

// List renders the paginated table. Search and filter come from the query
// string; submitting either resets to page 1 because the forms never carry
// a page parameter.
func (s *Service) List(c *fiber.Ctx) error {
	perms := s.permissions(c)
	if !perms.CanView {
		return s.denied(c)
	}

	client, err := s.client(c)
	if err != nil {
		log.Error().Err(err).Msg("backend client not ready")

		return c.Status(fiber.StatusInternalServerError).SendString("El backend no está configurado")
	}

	filter := c.Query("tipo")
	if filter != "" && !s.schema.HasFilter(filter) {
		filter = ""
	}

	query := cancha.PageQuery{
		Search:   c.Query("q"),
		Filter:   filter,
		Page:     c.QueryInt("page", 1),
		PageSize: cancha.Engine.PageSize,
		Scope:    s.scope(c),
	}

	// Each request fetches into its own list state: rows are loaded with
	// this session's token and scope and must never surface on another
	// user's page.
	var list screen.ListState

	snap := list.Fetch(c.Context(), client, s.schema.Resource, query)
	view := screen.BuildListView(s.schema, snap)

	return c.Render(ListTemplate, fiber.Map{
		"Navigation": s.nav(c, s.schema.Title),
		"Perms":      perms,
		"View":       view,
		"Schema":     s.schema,
		"Session":    handler.SessionData(c),
	}, handler.BaseLayout)
}

// New renders an empty create form.
func (s *Service) New(c *fiber.Ctx) error {
	perms := s.permissions(c)

	form := screen.NewForm(s.schema, perms)
	if err := form.OpenCreate(); err != nil {
		return s.denied(c)
	}

	return s.renderForm(c, form)
}

// Create handles the create form submission.
func (s *Service) Create(c *fiber.Ctx) error {
	perms := s.permissions(c)

	form := screen.NewForm(s.schema, perms)
	if err := form.OpenCreate(); err != nil {
		return s.denied(c)
	}

	return s.submit(c, form)
}

// View renders a record read-only.
func (s *Service) View(c *fiber.Ctx) error {
	perms := s.permissions(c)
	if !perms.CanView {
		return s.denied(c)
	}

	row, err := s.fetchRow(c)
	if err != nil {
		return s.redirectToList(c)
	}

	form := screen.NewForm(s.schema, perms)
	if err = form.OpenView(row); err != nil {
		return s.denied(c)
	}

	return s.renderForm(c, form)
}

// Edit renders the edit form populated from the backend record.
func (s *Service) Edit(c *fiber.Ctx) error {
	perms := s.permissions(c)
	if !perms.CanEdit {
		return s.denied(c)
	}

	row, err := s.fetchRow(c)
	if err != nil {
		return s.redirectToList(c)
	}

	form := screen.NewForm(s.schema, perms)
	if err = form.OpenEdit(row); err != nil {
		return s.denied(c)
	}

	return s.renderForm(c, form)
}

// Update handles the edit form submission.
func (s *Service) Update(c *fiber.Ctx) error {
	perms := s.permissions(c)
	if !perms.CanEdit {
		return s.denied(c)
	}

	row, err := s.fetchRow(c)
	if err != nil {
		return s.redirectToList(c)
	}

	form := screen.NewForm(s.schema, perms)
	if err = form.OpenEdit(row); err != nil {
		return s.denied(c)
	}

	return s.submit(c, form)
}

// DeleteConfirm renders the confirmation page before a delete.
func (s *Service) DeleteConfirm(c *fiber.Ctx) error {
	perms := s.permissions(c)
	if !perms.CanDelete {
		return s.denied(c)
	}

	row, err := s.fetchRow(c)
	if err != nil {
		return s.redirectToList(c)
	}

	return c.Render(DeleteTemplate, fiber.Map{
		"Navigation": s.nav(c, "Eliminar "+s.schema.TitleSingular),
		"Schema":     s.schema,
		"Keys":       s.keys(c),
		"Row":        rowCells(s.schema, row),
		"Session":    handler.SessionData(c),
	}, handler.BaseLayout)
}

// Delete removes the record. A backend refusal (already deleted, foreign
// key in use) is surfaced on the confirmation page instead of crashing.
func (s *Service) Delete(c *fiber.Ctx) error {
	perms := s.permissions(c)
	if !perms.CanDelete {
		return s.denied(c)
	}

	client, err := s.client(c)
	if err != nil {
		return s.redirectToList(c)
	}

	keys := s.keys(c)

	if err = client.Delete(c.Context(), s.schema.Resource, keys...); err != nil {
		log.Warn().Err(err).
			Str("screen", s.schema.Slug).
			Strs("keys", keys).
			Msg("delete rejected")

		return c.Render(DeleteTemplate, fiber.Map{
			"Navigation": s.nav(c, "Eliminar "+s.schema.TitleSingular),
			"Schema":     s.schema,
			"Keys":       keys,
			"Error":      cancha.Message(err, "No se pudo eliminar el registro"),
			"Session":    handler.SessionData(c),
		}, handler.BaseLayout)
	}

	return s.redirectToList(c)
}

// submit applies the posted values to the form and sends it. Validation
// or backend failures re-render the form with its errors in place.
func (s *Service) submit(c *fiber.Ctx, form *screen.Form) error {
	for _, field := range s.schema.Fields {
		if field.Kind == screen.KindFile || field.ReadOnly {
			continue
		}

		form.UpdateField(field.Name, c.FormValue(field.Name))
	}

	uploads, err := s.collectUploads(c)
	if err != nil {
		form.SetError("No se pudo leer el archivo adjunto")

		return s.renderForm(c, form)
	}

	client, err := s.client(c)
	if err != nil {
		form.SetError("El backend no está configurado")

		return s.renderForm(c, form)
	}

	if err = form.Submit(c.Context(), client, uploads); err != nil {
		// messages already sit on the form
		return s.renderForm(c, form)
	}

	return s.redirectToList(c)
}

// collectUploads reads the multipart files of the schema's file fields.
// Absent files are simply skipped so edits may keep the stored file.
func (s *Service) collectUploads(c *fiber.Ctx) ([]cancha.Upload, error) {
	if !s.schema.HasFileFields() {
		return nil, nil
	}

	var uploads []cancha.Upload

	for _, field := range s.schema.Fields {
		if field.Kind != screen.KindFile {
			continue
		}

		header, err := c.FormFile(field.Name)
		if err != nil {
			continue
		}

		file, err := header.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open upload %q", field.Name)
		}

		content, err := io.ReadAll(file)
		_ = file.Close()

		if err != nil {
			return nil, errors.Wrapf(err, "failed to read upload %q", field.Name)
		}

		uploads = append(uploads, cancha.Upload{
			Field:    field.Name,
			Filename: header.Filename,
			Content:  content,
		})
	}

	return uploads, nil
}

func (s *Service) renderForm(c *fiber.Ctx, form *screen.Form) error {
	title := s.schema.TitleSingular

	switch form.Mode() {
	case screen.ModeCreate:
		title = "Nuevo " + title
	case screen.ModeEdit:
		title = "Editar " + title
	case screen.ModeView:
		title = "Ver " + title
	}

	return c.Render(FormTemplate, fiber.Map{
		"Navigation": s.nav(c, title),
		"Schema":     s.schema,
		"Form":       form,
		"Session":    handler.SessionData(c),
	}, handler.BaseLayout)
}

// fetchRow loads the record addressed by the path keys.
func (s *Service) fetchRow(c *fiber.Ctx) (cancha.Row, error) {
	client, err := s.client(c)
	if err != nil {
		return nil, err
	}

	row, err := client.Detail(c.Context(), s.schema.Resource, s.keys(c)...)
	if err != nil {
		log.Warn().Err(err).
			Str("screen", s.schema.Slug).
			Strs("keys", s.keys(c)).
			Msg("record fetch failed")

		return nil, err
	}

	return row, nil
}

// keys extracts the path key segments in schema order.
func (s *Service) keys(c *fiber.Ctx) []string {
	out := make([]string, 0, len(s.schema.Keys))

	for i := range s.schema.Keys {
		out = append(out, c.Params("key"+string(rune('1'+i))))
	}

	return out
}

func (s *Service) redirectToList(c *fiber.Ctx) error {
	return c.Redirect("/" + s.schema.Slug)
}

// rowCells renders the record for the confirmation page.
func rowCells(schema *screen.Schema, row cancha.Row) []screen.Cell {
	cells := make([]screen.Cell, 0, len(schema.ListFields))

	for _, name := range schema.ListFields {
		label := name
		if field := schema.Field(name); field != nil {
			label = field.Label
		}

		cells = append(cells, screen.Cell{Field: label, Value: screen.FormatValue(row[name])})
	}

	return cells
}

func profileValue(profile []byte, field string) string {
	if len(profile) == 0 || field == "" {
		return ""
	}

	var decoded map[string]any
	if err := json.Unmarshal(profile, &decoded); err != nil {
		return ""
	}

	return screen.FormatValue(decoded[field])
}
