package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cancha-platform/cancha-admin/internal/auth"
)

func TestCatalogIsConsistent(t *testing.T) {
	catalog := Catalog()
	require.NotEmpty(t, catalog)

	seen := map[string]bool{}

	for _, schema := range catalog {
		t.Run(schema.Slug, func(t *testing.T) {
			assert.False(t, seen[schema.Slug], "duplicate slug")
			seen[schema.Slug] = true

			assert.NotEmpty(t, schema.Title)
			assert.NotEmpty(t, schema.TitleSingular)
			assert.NotEmpty(t, schema.Resource.BasePath)
			assert.NotEmpty(t, schema.Resource.Singular)
			assert.NotEmpty(t, schema.Resource.Plural)
			assert.NotEmpty(t, schema.Keys)
			assert.NotEmpty(t, schema.Fields)
			assert.NotEmpty(t, schema.ListFields)
			assert.NotEmpty(t, schema.Permissions)

			for _, key := range schema.Keys {
				assert.NotNil(t, schema.Field(key), "key %q must be a declared field", key)
			}

			for _, name := range schema.ListFields {
				assert.NotNil(t, schema.Field(name), "list field %q must be declared", name)
			}

			for _, field := range schema.Fields {
				if field.Kind == KindSelect {
					assert.NotEmpty(t, field.Options, "select field %q needs options", field.Name)
				}
			}
		})
	}
}

func TestBySlug(t *testing.T) {
	assert.NotNil(t, BySlug("reserva"))
	assert.Nil(t, BySlug("no-such-screen"))
}

func TestCatalogReturnsFreshCopies(t *testing.T) {
	first := BySlug("reserva")
	first.Title = "mutated"

	assert.Equal(t, "Reservas", BySlug("reserva").Title)
}

func TestCompositeKeySchema(t *testing.T) {
	schema := BySlug("participa-en")
	require.NotNil(t, schema)

	assert.Equal(t, []string{"id_reserva", "id_deportista"}, schema.Keys)
}

func TestScopedSchema(t *testing.T) {
	schema := BySlug("espacio-deportivo")
	require.NotNil(t, schema)

	assert.Equal(t, "id_admin_esp_dep", schema.ScopeParam)
	assert.True(t, schema.HasFileFields())
	assert.True(t, schema.Permissions.Knows(auth.RoleAdminEspDep))
}
