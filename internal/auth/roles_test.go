package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Role
	}{
		{"plain", "administrador", RoleAdministrador},
		{"already normalized", "ADMIN_ESP_DEP", RoleAdminEspDep},
		{"surrounding whitespace", "  deportista  ", RoleDeportista},
		{"whitespace run to underscore", "admin esp   dep", RoleAdminEspDep},
		{"admin alias", "admin", RoleAdministrador},
		{"admin alias uppercase", "ADMIN", RoleAdministrador},
		{"empty", "", Role("")},
		{"only whitespace", "   ", Role("")},
		{"unknown passes through", "Super Visor", Role("SUPER_VISOR")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestCandidatesFromProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		want    []Role
	}{
		{
			name:    "role field",
			profile: `{"role":"admin"}`,
			want:    []Role{RoleAdministrador},
		},
		{
			name:    "rol field",
			profile: `{"rol":"deportista"}`,
			want:    []Role{RoleDeportista},
		},
		{
			name:    "roles array of strings",
			profile: `{"roles":["deportista","admin esp dep"]}`,
			want:    []Role{RoleDeportista, RoleAdminEspDep},
		},
		{
			name:    "roles array of objects",
			profile: `{"roles":[{"rol":"control"},{"nombre":"deportista"},{"name":"admin"}]}`,
			want:    []Role{RoleControl, RoleDeportista, RoleAdministrador},
		},
		{
			name:    "field and array combined",
			profile: `{"rol":"admin","roles":["control"]}`,
			want:    []Role{RoleAdministrador, RoleControl},
		},
		{
			name:    "malformed json",
			profile: `{"rol": ...`,
			want:    nil,
		},
		{
			name:    "empty",
			profile: ``,
			want:    nil,
		},
		{
			name:    "no role data",
			profile: `{"id_deportista":5,"nombre":"Maria"}`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidatesFromProfile([]byte(tt.profile)))
		})
	}
}

func TestCandidatesFromToken(t *testing.T) {
	t.Run("roles claim as array", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"roles": []string{"admin esp dep", "control"}})

		assert.Equal(t, []Role{RoleAdminEspDep, RoleControl}, CandidatesFromToken(token))
	})

	t.Run("rol claim as string", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"rol": "admin"})

		assert.Equal(t, []Role{RoleAdministrador}, CandidatesFromToken(token))
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.Nil(t, CandidatesFromToken("not.a.token"))
		assert.Nil(t, CandidatesFromToken("missing-dots"))
		assert.Nil(t, CandidatesFromToken(""))
	})
}

func TestResolve(t *testing.T) {
	screenPerms := PermissionSet{
		RoleAdministrador: FullAccess(),
		RoleAdminEspDep:   {CanView: true, CanEdit: true},
		RoleDeportista:    ReadOnly(),
	}

	t.Run("priority role wins over first candidate", func(t *testing.T) {
		profile := `{"roles":["deportista","administrador"]}`

		assert.Equal(t, RoleAdministrador, Resolve([]byte(profile), "", screenPerms))
	})

	t.Run("second priority role", func(t *testing.T) {
		profile := `{"roles":["deportista","admin esp dep"]}`

		assert.Equal(t, RoleAdminEspDep, Resolve([]byte(profile), "", screenPerms))
	})

	t.Run("first known candidate without priority", func(t *testing.T) {
		profile := `{"roles":["control","deportista"]}`

		// CONTROL is not declared on this screen, DEPORTISTA is.
		assert.Equal(t, RoleDeportista, Resolve([]byte(profile), "", screenPerms))
	})

	t.Run("token fallback when profile has no roles", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"roles": []string{"admin"}})

		assert.Equal(t, RoleAdministrador, Resolve([]byte(`{"nombre":"x"}`), token, screenPerms))
	})

	t.Run("profile roles suppress token claims", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"roles": []string{"admin"}})
		profile := `{"rol":"deportista"}`

		assert.Equal(t, RoleDeportista, Resolve([]byte(profile), token, screenPerms))
	})

	t.Run("unknown everywhere falls back to default", func(t *testing.T) {
		assert.Equal(t, RoleDefault, Resolve([]byte(`{"rol":"visitante"}`), "", screenPerms))
	})

	t.Run("malformed profile and token degrade silently", func(t *testing.T) {
		assert.Equal(t, RoleDefault, Resolve([]byte(`{"broken`), "garbage", screenPerms))
	})
}
