package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cancha-platform/cancha-admin/internal/cancha"
)

func TestBuildListView(t *testing.T) {
	schema := BySlug("administrador")
	require.NotNil(t, schema)

	snap := Snapshot{
		Query: cancha.PageQuery{Page: 1, PageSize: 10},
		Rows: []cancha.Row{
			{"id_administrador": float64(1), "nombre": "Ana", "apellido": "Rojas", "correo": "ana@cancha.bo"},
			{"nombre": "sin clave"}, // key missing, must be skipped
		},
		Total: 35,
	}

	view := BuildListView(schema, snap)

	assert.Equal(t, "Administradores", view.Title)
	assert.Equal(t, []string{"ID", "Nombre", "Apellido", "Correo", "Teléfono"}, view.Columns)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, []string{"1"}, view.Rows[0].Keys)
	assert.Equal(t, "Ana", view.Rows[0].Cells[1].Value)
	assert.Equal(t, "Página 1 de 4", view.PageLabel())
	assert.False(t, view.HasPrev())
	assert.True(t, view.HasNext())
}

func TestListViewNavigation(t *testing.T) {
	view := ListView{Page: 2, TotalPages: 4}

	assert.True(t, view.HasPrev())
	assert.True(t, view.HasNext())
	assert.Equal(t, 1, view.PrevPage())
	assert.Equal(t, 3, view.NextPage())

	last := ListView{Page: 4, TotalPages: 4}
	assert.False(t, last.HasNext())
	assert.Equal(t, 4, last.NextPage())
	assert.Equal(t, 3, last.PrevPage())
}

func TestBuildListViewEmpty(t *testing.T) {
	schema := BySlug("pago")
	require.NotNil(t, schema)

	view := BuildListView(schema, Snapshot{Query: cancha.PageQuery{Page: 1, PageSize: 10}})

	assert.Empty(t, view.Rows)
	assert.Equal(t, "Página 1 de 1", view.PageLabel())
	assert.False(t, view.HasPrev())
	assert.False(t, view.HasNext())
}
