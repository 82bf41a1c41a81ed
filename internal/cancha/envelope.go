package cancha

import (
	"encoding/json"
)

// Envelope is the uniform response wrapper used by every backend endpoint.
type Envelope struct {
	Exito   bool            `json:"exito"`
	Mensaje string          `json:"mensaje,omitempty"`
	Datos   json.RawMessage `json:"datos,omitempty"`
}
