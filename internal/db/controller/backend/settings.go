// Package backend stores the Cancha backend API connection settings.
package backend

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/cancha-platform/cancha-admin/internal/db/controller/setting"
)

const (
	// SettingKeyBackend is the key used to store backend API settings in the database.
	SettingKeyBackend = "cancha_backend"
)

type (
	// Settings represents the Cancha backend API configuration.
	Settings struct {
		BaseURL        string `form:"base_url"        json:"baseUrl"        validate:"required,url"`
		TimeoutSeconds int    `form:"timeout_seconds" json:"timeoutSeconds" validate:"min=1,max=300"`
		PageSize       int    `form:"page_size"       json:"pageSize"       validate:"min=1,max=100"`
	}
)

// Load loads the backend API settings from the database.
func (b *Settings) Load(db *gorm.DB) error {
	s, err := setting.Get(db, SettingKeyBackend)
	if err != nil {
		return err
	}

	// Unmarshal the JSON blob into the struct
	return json.Unmarshal(s.Value, b)
}

// Save saves the backend API settings to the database.
func (b *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	// Save or update the setting in the database
	_, err = setting.Set(db, SettingKeyBackend, data)

	return err
}
