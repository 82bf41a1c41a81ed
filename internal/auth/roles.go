// Package auth implements role resolution and per-screen permission sets
// for the management console. Roles come from the session profile stored at
// login and, as a fallback, from the claims of the backend session token.
package auth

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role is a normalized role name, e.g. "ADMINISTRADOR".
type Role string

const (
	// RoleAdministrador is the platform administrator.
	RoleAdministrador Role = "ADMINISTRADOR"

	// RoleAdminEspDep is a sports venue manager.
	RoleAdminEspDep Role = "ADMIN_ESP_DEP"

	// RoleDeportista is an athlete account.
	RoleDeportista Role = "DEPORTISTA"

	// RoleControl is a venue access control account.
	RoleControl Role = "CONTROL"

	// RoleDefault is the no-permission fallback for unknown or missing roles.
	RoleDefault Role = "DEFAULT"
)

// rolePriority is checked first during resolution when several candidate
// roles are present and screen-relevant.
var rolePriority = []Role{RoleAdministrador, RoleAdminEspDep}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize turns a raw role value into its canonical form: trimmed,
// uppercased, whitespace runs replaced by underscores. The legacy alias
// ADMIN maps to ADMINISTRADOR.
func Normalize(raw string) Role {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}

	cleaned = strings.ToUpper(whitespaceRun.ReplaceAllString(cleaned, "_"))

	if cleaned == "ADMIN" {
		return RoleAdministrador
	}

	return Role(cleaned)
}

// profileRoles is the duck-typed shape of the stored user object.
// The role may sit in a plain "rol"/"role" field or in a "roles" array of
// strings or objects.
type profileRoles struct {
	Rol   string            `json:"rol"`
	Role  string            `json:"role"`
	Roles []json.RawMessage `json:"roles"`
}

// roleObject covers the object variants seen inside roles arrays.
type roleObject struct {
	Rol    string `json:"rol"`
	Role   string `json:"role"`
	Nombre string `json:"nombre"`
	Name   string `json:"name"`
}

func (r roleObject) value() string {
	for _, v := range []string{r.Rol, r.Role, r.Nombre, r.Name} {
		if v != "" {
			return v
		}
	}

	return ""
}

// CandidatesFromProfile collects normalized role candidates from the raw
// JSON user profile. Malformed input yields no candidates, never an error.
func CandidatesFromProfile(profile []byte) []Role {
	if len(profile) == 0 {
		return nil
	}

	var p profileRoles
	if err := json.Unmarshal(profile, &p); err != nil {
		return nil
	}

	var out []Role

	for _, raw := range []string{p.Rol, p.Role} {
		if r := Normalize(raw); r != "" {
			out = append(out, r)
		}
	}

	for _, entry := range p.Roles {
		var asString string
		if err := json.Unmarshal(entry, &asString); err == nil {
			if r := Normalize(asString); r != "" {
				out = append(out, r)
			}

			continue
		}

		var asObject roleObject
		if err := json.Unmarshal(entry, &asObject); err == nil {
			if r := Normalize(asObject.value()); r != "" {
				out = append(out, r)
			}
		}
	}

	return out
}

// CandidatesFromToken collects normalized role candidates from the
// roles/rol claim of the session token. The token is decoded without
// signature verification; the console never trusts it for anything beyond
// UI gating, the backend enforces real authorization. Malformed tokens
// yield no candidates.
func CandidatesFromToken(token string) []Role {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	var out []Role

	appendClaim := func(value any) {
		switch v := value.(type) {
		case string:
			if r := Normalize(v); r != "" {
				out = append(out, r)
			}
		case []any:
			for _, entry := range v {
				if s, ok := entry.(string); ok {
					if r := Normalize(s); r != "" {
						out = append(out, r)
					}
				}
			}
		}
	}

	appendClaim(claims["roles"])
	appendClaim(claims["rol"])

	return out
}

// Resolve derives the effective role for one screen from the stored
// profile and session token, given the screen's permission set.
// Priority roles win when screen-relevant; otherwise the first candidate
// known to the screen is taken; with no match the no-permission default
// applies. Resolution never fails.
func Resolve(profile []byte, token string, set PermissionSet) Role {
	candidates := CandidatesFromProfile(profile)
	if len(candidates) == 0 {
		candidates = CandidatesFromToken(token)
	}

	for _, preferred := range rolePriority {
		if !set.Knows(preferred) {
			continue
		}

		for _, c := range candidates {
			if c == preferred {
				return preferred
			}
		}
	}

	for _, c := range candidates {
		if set.Knows(c) {
			return c
		}
	}

	return RoleDefault
}
