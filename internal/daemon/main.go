// Package daemon wires the console together: database, session store,
// backend client engine and the web service.
package daemon

import (
	"fmt"

	sessionmysql "github.com/gofiber/storage/mysql/v2"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/cancha-platform/cancha-admin/internal/cancha"
	"github.com/cancha-platform/cancha-admin/internal/config"
	"github.com/cancha-platform/cancha-admin/internal/db/dsn"
	"github.com/cancha-platform/cancha-admin/internal/db/models"
	"github.com/cancha-platform/cancha-admin/internal/logger"
	"github.com/cancha-platform/cancha-admin/internal/web"
	"github.com/cancha-platform/cancha-admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg))

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	// Initialize fiber session store
	sessionStorage := sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})

	session.Init(sessionStorage)

	// Initialize the backend client engine from stored settings.
	// The console still starts without it so the connection can be fixed
	// on the admin screen.
	if err = cancha.Open(db); err != nil {
		log.Warn().Err(err).Msg("backend client not initialized, configure it under /admin/backend")
	}

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db),
	}
}
