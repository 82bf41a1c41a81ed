package config

import (
	"time"

	"github.com/cancha-platform/cancha-admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// API holds the default connection settings for the Cancha backend API.
// These seed the database-stored settings on first start and can be
// changed later on the admin backend screen.
type API struct {
	BaseURL  string        // base url of the Cancha REST API
	Timeout  time.Duration // per request timeout
	PageSize int           // default rows per page on entity screens
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	API       API
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}
