// Package dashboard renders the landing page: one card per entity screen
// the signed-in role may open, with the backend's record count.
package dashboard

import (
	"context"
	"sync"
	"time"

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
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	countTimeout = 10 * time.Second
)

// Card is one dashboard tile.
type Card struct {
	Title string
	URL   string
	Total int
	// CountKnown is false when the count fetch failed; the card still
	// renders, just without a number.
	CountKnown bool
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering. Counts are fetched
// concurrently; a failing count never fails the page.
func (s *Service) Get(c *fiber.Ctx) error {
	sess := handler.SessionData(c)

	nav := navigation.NewContext("Inicio", "dashboard").
		AddBreadcrumb("Inicio", Path, true).
		WithMenu(sess.Profile, sess.Token)

	visible := make([]*screen.Schema, 0)

	for _, schema := range screen.Catalog() {
		role := auth.Resolve(sess.Profile, sess.Token, schema.Permissions)
		if schema.Permissions.For(role).CanView {
			visible = append(visible, schema)
		}
	}

	cards := make([]Card, len(visible))

	if cancha.Engine.Client != nil {
		client := cancha.Engine.WithToken(sess.Token)

		var wg sync.WaitGroup

		for i, schema := range visible {
			wg.Add(1)

			go func(i int, schema *screen.Schema) {
				defer wg.Done()

				// fiber's request context is not safe to share with
				// goroutines that may outlive the handler
				ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
				defer cancel()

				page, err := client.FetchPage(ctx, schema.Resource, cancha.PageQuery{Page: 1, PageSize: 1})
				if err != nil {
					log.Warn().Err(err).Str("screen", schema.Slug).Msg("count fetch failed")

					return
				}

				cards[i].Total = page.Total
				cards[i].CountKnown = true
			}(i, schema)
		}

		wg.Wait()
	}

	for i, schema := range visible {
		cards[i].Title = schema.Title
		cards[i].URL = "/" + schema.Slug
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Cards":      cards,
		"Session":    sess,
	}, handler.BaseLayout)
}
