package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cancha-platform/cancha-admin/internal/web/session"
)

const (
	// SessionCookie is the name of the login cookie.
	SessionCookie = "session"

	// SessionLocalsKey is where the auth middleware parks the session data.
	SessionLocalsKey = "session_data"
)

// SessionData returns the session data the auth middleware resolved for
// this request. Requests without a valid session get an empty value.
func SessionData(c *fiber.Ctx) *session.Data {
	if data, ok := c.Locals(SessionLocalsKey).(*session.Data); ok && data != nil {
		return data
	}

	return &session.Data{}
}
