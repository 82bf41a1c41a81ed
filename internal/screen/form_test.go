package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cancha-platform/cancha-admin/internal/auth"
	"github.com/cancha-platform/cancha-admin/internal/cancha"
)

func reservaSchema(t *testing.T) *Schema {
	t.Helper()

	schema := BySlug("reserva")
	require.NotNil(t, schema)

	return schema
}

func okBackend(t *testing.T, hits *atomic.Int64) *cancha.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"exito": true, "mensaje": "ok", "datos": map[string]any{}})
	}))
	t.Cleanup(srv.Close)

	client, err := cancha.New(srv.URL, time.Second)
	require.NoError(t, err)

	return client
}

func TestFormOpenCreate(t *testing.T) {
	schema := reservaSchema(t)

	t.Run("allowed", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())

		require.NoError(t, form.OpenCreate())
		assert.Equal(t, ModeCreate, form.Mode())
		assert.Equal(t, "", form.Values()["estado"])
	})

	t.Run("denied without create permission", func(t *testing.T) {
		form := NewForm(schema, auth.ReadOnly())

		assert.ErrorIs(t, form.OpenCreate(), ErrPermissionDenied)
		assert.Equal(t, ModeClosed, form.Mode())
	})
}

func TestFormOpenEdit(t *testing.T) {
	schema := reservaSchema(t)
	row := cancha.Row{
		"id_reserva":      float64(7),
		"id_deportista":   float64(3),
		"monto_total":     float64(100),
		"saldo_pendiente": float64(25),
		"estado":          "pendiente",
	}

	form := NewForm(schema, auth.FullAccess())
	require.NoError(t, form.OpenEdit(row))

	assert.Equal(t, ModeEdit, form.Mode())
	assert.Equal(t, []string{"7"}, form.Keys())
	assert.Equal(t, "100", form.Values()["monto_total"])
	assert.False(t, form.ReadOnly())
}

func TestFormOpenEditMissingKey(t *testing.T) {
	form := NewForm(reservaSchema(t), auth.FullAccess())

	err := form.OpenEdit(cancha.Row{"estado": "pendiente"})
	require.Error(t, err)
	assert.Equal(t, ModeClosed, form.Mode())
}

func TestFormUpdateField(t *testing.T) {
	schema := reservaSchema(t)

	t.Run("edit mode mutates", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())

		form.UpdateField("estado", "confirmada")
		assert.Equal(t, "confirmada", form.Values()["estado"])
	})

	t.Run("view mode is a no-op", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenView(cancha.Row{"id_reserva": float64(1), "estado": "pendiente"}))

		form.UpdateField("estado", "confirmada")
		assert.Equal(t, "pendiente", form.Values()["estado"])
	})

	t.Run("unknown field is dropped", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())

		form.UpdateField("no_such_field", "x")
		_, ok := form.Values()["no_such_field"]
		assert.False(t, ok)
	})
}

func TestFormValidate(t *testing.T) {
	schema := reservaSchema(t)

	fill := func(form *Form) {
		form.UpdateField("id_deportista", "3")
		form.UpdateField("id_espacio_deportivo", "4")
		form.UpdateField("fecha", "2026-09-01")
		form.UpdateField("monto_total", "100")
		form.UpdateField("saldo_pendiente", "50")
		form.UpdateField("estado", "pendiente")
	}

	t.Run("complete draft passes", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		fill(form)

		assert.True(t, form.Validate())
		assert.Empty(t, form.FieldErrors())
	})

	t.Run("required field missing", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		fill(form)
		form.UpdateField("fecha", "")

		assert.False(t, form.Validate())
		assert.Contains(t, form.FieldErrors(), "fecha")
	})

	t.Run("non numeric number", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		fill(form)
		form.UpdateField("monto_total", "cien")

		assert.False(t, form.Validate())
		assert.Contains(t, form.FieldErrors(), "monto_total")
	})

	t.Run("negative amount breaks the lower bound", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		fill(form)
		form.UpdateField("saldo_pendiente", "-1")

		assert.False(t, form.Validate())
		assert.Contains(t, form.FieldErrors(), "saldo_pendiente")
	})

	t.Run("unknown select value", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		fill(form)
		form.UpdateField("estado", "perdida")

		assert.False(t, form.Validate())
		assert.Contains(t, form.FieldErrors(), "estado")
	})

	t.Run("saldo above monto blocks with exact message", func(t *testing.T) {
		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		fill(form)
		form.UpdateField("monto_total", "100")
		form.UpdateField("saldo_pendiente", "150")

		assert.False(t, form.Validate())
		assert.Equal(t, "El saldo pendiente no puede ser mayor al monto total", form.Error())
	})
}

func TestFormHourOrderCheck(t *testing.T) {
	schema := BySlug("reserva-horario")
	require.NotNil(t, schema)

	form := NewForm(schema, auth.FullAccess())
	require.NoError(t, form.OpenCreate())
	form.UpdateField("id_reserva", "1")
	form.UpdateField("fecha", "2026-09-01")
	form.UpdateField("hora_inicio", "18:00")
	form.UpdateField("hora_fin", "17:00")

	assert.False(t, form.Validate())
	assert.Equal(t, "La hora de fin debe ser posterior a la hora de inicio", form.Error())

	form.UpdateField("hora_fin", "19:00")
	assert.True(t, form.Validate())
}

func TestFormSubmit(t *testing.T) {
	schema := reservaSchema(t)

	t.Run("view mode never reaches the network", func(t *testing.T) {
		var hits atomic.Int64

		client := okBackend(t, &hits)

		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenView(cancha.Row{"id_reserva": float64(1)}))

		assert.ErrorIs(t, form.Submit(context.Background(), client, nil), ErrSubmitNotAllowed)
		assert.Zero(t, hits.Load())
	})

	t.Run("validation failure issues no request", func(t *testing.T) {
		var hits atomic.Int64

		client := okBackend(t, &hits)

		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		form.UpdateField("monto_total", "100")
		form.UpdateField("saldo_pendiente", "150")

		assert.ErrorIs(t, form.Submit(context.Background(), client, nil), ErrValidationFailed)
		assert.Zero(t, hits.Load())
	})

	t.Run("valid create posts and closes", func(t *testing.T) {
		var hits atomic.Int64

		client := okBackend(t, &hits)

		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		form.UpdateField("id_deportista", "3")
		form.UpdateField("id_espacio_deportivo", "4")
		form.UpdateField("fecha", "2026-09-01")
		form.UpdateField("monto_total", "100")
		form.UpdateField("saldo_pendiente", "0")
		form.UpdateField("estado", "pendiente")

		require.NoError(t, form.Submit(context.Background(), client, nil))
		assert.Equal(t, int64(1), hits.Load())
		assert.Equal(t, ModeClosed, form.Mode())
	})

	t.Run("backend failure stays on the form", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]any{"exito": false, "mensaje": "La reserva ya existe"})
		}))
		t.Cleanup(srv.Close)

		client, err := cancha.New(srv.URL, time.Second)
		require.NoError(t, err)

		form := NewForm(schema, auth.FullAccess())
		require.NoError(t, form.OpenCreate())
		form.UpdateField("id_deportista", "3")
		form.UpdateField("id_espacio_deportivo", "4")
		form.UpdateField("fecha", "2026-09-01")
		form.UpdateField("monto_total", "100")
		form.UpdateField("saldo_pendiente", "0")
		form.UpdateField("estado", "pendiente")

		require.Error(t, form.Submit(context.Background(), client, nil))
		assert.Equal(t, "La reserva ya existe", form.Error())
		assert.Equal(t, ModeCreate, form.Mode())
	})
}

func TestFormPayload(t *testing.T) {
	form := NewForm(reservaSchema(t), auth.FullAccess())
	require.NoError(t, form.OpenCreate())
	form.UpdateField("id_deportista", "3")
	form.UpdateField("id_espacio_deportivo", "4")
	form.UpdateField("fecha", "2026-09-01")
	form.UpdateField("monto_total", "100.5")
	form.UpdateField("saldo_pendiente", "0")
	form.UpdateField("estado", "pendiente")

	payload := form.Payload()

	assert.Equal(t, 100.5, payload["monto_total"])
	assert.Equal(t, "pendiente", payload["estado"])
	// read-only key column is never sent
	_, ok := payload["id_reserva"]
	assert.False(t, ok)
}

func TestFormChangedFields(t *testing.T) {
	form := NewForm(reservaSchema(t), auth.FullAccess())
	require.NoError(t, form.OpenEdit(cancha.Row{
		"id_reserva":      float64(7),
		"id_deportista":   float64(3),
		"monto_total":     float64(100),
		"saldo_pendiente": float64(25),
		"estado":          "pendiente",
	}))

	form.UpdateField("estado", "confirmada")

	changed := form.ChangedFields()
	assert.Equal(t, map[string]string{"estado": "confirmada"}, changed)
}
