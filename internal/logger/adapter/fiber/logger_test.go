package fiber

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	fiberapp "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cancha-platform/cancha-admin/internal/logger"
)

func newLoggedApp() *fiberapp.App {
	app := fiberapp.New()
	app.Use(New(Config{Config: logger.Log{}}))

	app.Get("/fast", func(c *fiberapp.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/slow", func(c *fiberapp.Ctx) error {
		time.Sleep(80 * time.Millisecond)

		return c.SendString("ok")
	})

	return app
}

func performance(t *testing.T, resp *http.Response) float64 {
	t.Helper()

	raw := resp.Header.Get("X-Performance")
	require.NotEmpty(t, raw)

	elapsed, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)

	return elapsed
}

func TestMiddlewareSetsRequestID(t *testing.T) {
	app := fiberapp.New()
	app.Use(New(Config{Config: logger.Log{}}))

	var reqID any

	app.Get("/", func(c *fiberapp.Ctx) error {
		reqID = c.Locals("reqid")

		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	id, ok := reqID.(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

// Each request measures its own elapsed time: a request that starts while
// another is in flight must not reset the other's clock.
func TestMiddlewareTimesConcurrentRequestsIndependently(t *testing.T) {
	app := newLoggedApp()

	slowResp := make(chan *http.Response, 1)

	go func() {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/slow", nil), -1)
		if err != nil {
			slowResp <- nil

			return
		}

		slowResp <- resp
	}()

	// let the slow request start, then finish a fast one during its sleep
	time.Sleep(20 * time.Millisecond)

	fast, err := app.Test(httptest.NewRequest(http.MethodGet, "/fast", nil), -1)
	require.NoError(t, err)

	defer func() { _ = fast.Body.Close() }()

	slow := <-slowResp
	require.NotNil(t, slow)

	defer func() { _ = slow.Body.Close() }()

	assert.GreaterOrEqual(t, performance(t, slow), 0.08)
	assert.Less(t, performance(t, fast), 0.08)
}
