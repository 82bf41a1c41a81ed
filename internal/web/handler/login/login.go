// Package login signs users in against the Cancha backend and opens the
// local session that carries their bearer token.
package login

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cancha-platform/cancha-admin/internal/cancha"
	"github.com/cancha-platform/cancha-admin/internal/config"
	"github.com/cancha-platform/cancha-admin/internal/web/handler"
	"github.com/cancha-platform/cancha-admin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

type credentials struct {
	Correo     string `form:"correo" json:"correo"`
	Contrasena string `form:"contrasena" json:"contrasena"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"title": s.cfg.Title,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	creds := new(credentials)

	if err := c.BodyParser(creds); err != nil {
		return s.renderError(c, ErrInvalidFormData.Error())
	}

	creds.Correo = strings.TrimSpace(creds.Correo)
	if creds.Correo == "" || creds.Contrasena == "" {
		return s.renderError(c, ErrMissingCredentials.Error())
	}

	token, profile, err := cancha.Engine.Login(c.Context(), creds.Correo, creds.Contrasena)
	if err != nil {
		log.Warn().Err(err).Str("correo", creds.Correo).Msg("login rejected")

		return s.renderError(c, cancha.Message(err, "No se pudo iniciar sesión"))
	}

	rawProfile, err := json.Marshal(profile)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode profile")

		return s.renderError(c, "Error interno del servidor")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return s.renderError(c, "Error interno del servidor")
	}

	userSession := &session.Data{
		Token:   token,
		Profile: rawProfile,
		Nombre:  stringField(profile, "nombre"),
		Correo:  creds.Correo,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.renderError(c, "Error interno del servidor")
	}

	cookieSettings := &fiber.Cookie{
		Name:     handler.SessionCookie,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect("/dashboard")
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"title": s.cfg.Title,
		"error": msg,
	})
}

func stringField(row cancha.Row, name string) string {
	if value, ok := row[name].(string); ok {
		return value
	}

	return ""
}
