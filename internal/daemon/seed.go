package daemon

import (
	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/cancha-platform/cancha-admin/internal/cancha"
	"github.com/cancha-platform/cancha-admin/internal/config"
	"github.com/cancha-platform/cancha-admin/internal/db/controller/backend"
)

// seed stores the backend connection settings from the config file when
// the database does not carry them yet. Later changes on the admin screen
// win over the config file.
func seed(cfg *config.Config, db *gorm.DB) {
	settings := &backend.Settings{}
	if err := settings.Load(db); err == nil {
		return
	}

	if cfg.API.BaseURL == "" {
		log.Warn().Msg("no backend api base url configured, skipping seed")
		return
	}

	pageSize := cfg.API.PageSize
	if pageSize < 1 {
		pageSize = cancha.DefaultPageSize
	}

	timeout := int(cfg.API.Timeout.Seconds())
	if timeout < 1 {
		timeout = int(cancha.DefaultTimeout.Seconds())
	}

	settings = &backend.Settings{
		BaseURL:        cfg.API.BaseURL,
		TimeoutSeconds: timeout,
		PageSize:       pageSize,
	}

	if err := settings.Save(db); err != nil {
		log.Error().Err(err).Msg("failed to seed backend settings")
	}
}
