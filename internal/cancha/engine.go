package cancha

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cancha-platform/cancha-admin/internal/db/controller/backend"
)

type engine struct {
	*Client

	// PageSize is the configured default rows per page for entity screens.
	PageSize int
}

// Engine represents the shared backend client engine.
var Engine engine

// Open initializes the backend client using settings from the database.
func Open(db *gorm.DB) error {
	settings := &backend.Settings{}
	if err := settings.Load(db); err != nil {
		return err
	}

	client, err := New(settings.BaseURL, time.Duration(settings.TimeoutSeconds)*time.Second)
	if err != nil {
		return err
	}

	Engine.Client = client
	Engine.PageSize = settings.PageSize

	log.Info().Str("base_url", settings.BaseURL).Msg("cancha backend client initialized")

	return nil
}
