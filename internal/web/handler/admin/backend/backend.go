// Package backend is the admin screen for the Cancha backend connection:
// base URL, request timeout and the default page size of entity lists.
// Saving re-initializes the shared client engine.
package backend

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cancha-platform/cancha-admin/internal/auth"
	"github.com/cancha-platform/cancha-admin/internal/cancha"
	"github.com/cancha-platform/cancha-admin/internal/config"
	backendsettings "github.com/cancha-platform/cancha-admin/internal/db/controller/backend"
	"github.com/cancha-platform/cancha-admin/internal/web/handler"
	"github.com/cancha-platform/cancha-admin/internal/web/navigation"
)

const (
	// Path is the path to the backend settings page.
	Path = "/admin/backend"

	// TemplateName is the name of the backend settings template.
	TemplateName = "admin/backend/form"
)

// onlyAdministrators guards the settings screen.
var onlyAdministrators = auth.PermissionSet{
	auth.RoleAdministrador: auth.FullAccess(),
}

// Service is the backend settings handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the backend settings handler.
var Handler = Service{}

// Init initializes the backend settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.validate = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

func (s *Service) allowed(c *fiber.Ctx) bool {
	sess := handler.SessionData(c)
	role := auth.Resolve(sess.Profile, sess.Token, onlyAdministrators)

	return onlyAdministrators.For(role).CanEdit
}

func (s *Service) nav(c *fiber.Ctx) *navigation.Context {
	sess := handler.SessionData(c)

	return navigation.NewContext("Conexión al backend", "admin-backend").
		AddBreadcrumb("Inicio", "/dashboard", false).
		AddBreadcrumb("Conexión al backend", Path, true).
		WithMenu(sess.Profile, sess.Token)
}

// Get renders the settings form with the stored values.
func (s *Service) Get(c *fiber.Ctx) error {
	if !s.allowed(c) {
		return c.Status(fiber.StatusForbidden).SendString("No tiene permisos para acceder a esta pantalla")
	}

	settings := &backendsettings.Settings{}
	if err := settings.Load(s.db); err != nil {
		log.Warn().Err(err).Msg("backend settings not stored yet")
	}

	return s.render(c, settings, "", "")
}

// Post validates and saves the settings, then reopens the client engine
// so the new connection takes effect without a restart.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.allowed(c) {
		return c.Status(fiber.StatusForbidden).SendString("No tiene permisos para acceder a esta pantalla")
	}

	settings := &backendsettings.Settings{}
	if err := c.BodyParser(settings); err != nil {
		return s.render(c, settings, "Datos de formulario inválidos", "")
	}

	if err := s.validate.Struct(settings); err != nil {
		return s.render(c, settings, "Verifique la URL, el tiempo de espera y el tamaño de página", "")
	}

	if err := settings.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save backend settings")

		return s.render(c, settings, "No se pudo guardar la configuración", "")
	}

	if err := cancha.Open(s.db); err != nil {
		log.Error().Err(err).Msg("failed to reopen backend client")

		return s.render(c, settings, "Configuración guardada pero el cliente no pudo iniciarse", "")
	}

	return s.render(c, settings, "", "Configuración guardada")
}

func (s *Service) render(c *fiber.Ctx, settings *backendsettings.Settings, errMsg, okMsg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Navigation": s.nav(c),
		"Settings":   settings,
		"error":      errMsg,
		"success":    okMsg,
		"Session":    handler.SessionData(c),
	}, handler.BaseLayout)
}
