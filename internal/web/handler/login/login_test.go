package login

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cancha-platform/cancha-admin/internal/cancha"
	"github.com/cancha-platform/cancha-admin/internal/config"
	websess "github.com/cancha-platform/cancha-admin/internal/web/session"
)

// noOpViews is a minimal Fiber Views engine used for tests.
// It writes the "error" field from the provided fiber.Map (if any)
// so tests can assert error messages rendered by handlers.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			if msg, isStr := v.(string); isStr && msg != "" {
				_, _ = io.WriteString(w, msg)
				return nil
			}
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{Views: noOpViews{}})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Title:   "Cancha Admin",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

var engineMu sync.Mutex

// fakeLoginBackend points cancha.Engine at an httptest login endpoint.
func fakeLoginBackend(t *testing.T, handlerFn http.HandlerFunc) {
	t.Helper()

	engineMu.Lock()

	srv := httptest.NewServer(handlerFn)
	t.Cleanup(srv.Close)

	client, err := cancha.New(srv.URL, time.Second)
	require.NoError(t, err)

	prev := cancha.Engine.Client
	cancha.Engine.Client = client

	t.Cleanup(func() {
		cancha.Engine.Client = prev
		engineMu.Unlock()
	})
}

func performPost(t *testing.T, app *fiber.App, target string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestGetRendersLoginPage(t *testing.T) {
	app := newTestApp()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), newTestDB(t)))

	req := httptest.NewRequest(http.MethodGet, Path+"/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostSuccessSetsCookieAndRedirects(t *testing.T) {
	fakeLoginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@cancha.bo", body["correo"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"exito": true,
			"datos": map[string]any{
				"token":   "jwt-token",
				"usuario": map[string]any{"nombre": "Ana", "rol": "administrador"},
			},
		})
	})

	initSessionStore()

	app := newTestApp()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), newTestDB(t)))

	resp := performPost(t, app, Path+"/", url.Values{
		"correo":     {"ana@cancha.bo"},
		"contrasena": {"secret"},
	})

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "session=")
	assert.Contains(t, strings.ToLower(setCookie), "secure")

	// the stored session must carry token and profile
	cookieValue := strings.TrimPrefix(strings.Split(setCookie, ";")[0], "session=")

	stored := new(websess.Data)
	require.NoError(t, stored.Read(cookieValue))
	assert.Equal(t, "jwt-token", stored.Token)
	assert.Equal(t, "Ana", stored.Nombre)
	assert.True(t, stored.SignedIn())
}

func TestPostDevModeDisablesSecureCookie(t *testing.T) {
	fakeLoginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"exito": true,
			"datos": map[string]any{"token": "t", "usuario": map[string]any{}},
		})
	})

	initSessionStore()

	cfg := newTestConfig()
	cfg.DevMode = true

	app := newTestApp()

	var s Service
	require.NoError(t, s.Init(app, cfg, newTestDB(t)))

	resp := performPost(t, app, Path+"/", url.Values{
		"correo":     {"x@y.z"},
		"contrasena": {"p"},
	})

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotContains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "secure")
}

func TestPostBadCredentialsRendersBackendMessage(t *testing.T) {
	fakeLoginBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"exito":   false,
			"mensaje": "Credenciales incorrectas",
		})
	})

	initSessionStore()

	app := newTestApp()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), newTestDB(t)))

	resp := performPost(t, app, Path+"/", url.Values{
		"correo":     {"ana@cancha.bo"},
		"contrasena": {"wrong"},
	})

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Credenciales incorrectas")
}

func TestPostMissingCredentialsRendersError(t *testing.T) {
	initSessionStore()

	app := newTestApp()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), newTestDB(t)))

	resp := performPost(t, app, Path+"/", url.Values{"correo": {""}, "contrasena": {""}})

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), ErrMissingCredentials.Error())
}
