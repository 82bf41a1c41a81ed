package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cancha-platform/cancha-admin/internal/web/handler"
	"github.com/cancha-platform/cancha-admin/internal/web/handler/login"
	"github.com/cancha-platform/cancha-admin/internal/web/session"
)

// AuthMiddleware is a Fiber middleware that checks for user authentication.
// Valid sessions are parked in Locals so handlers resolve the role once
// per request without re-reading the store.
func AuthMiddleware(c *fiber.Ctx) error {
	isLoginPage := IsLoginPage(c)

	originalURL := strings.ToLower(c.OriginalURL())
	if strings.HasPrefix(originalURL, "/static") {
		return c.Next()
	}

	loginCookie := c.Cookies(handler.SessionCookie)

	if loginCookie == "" && !isLoginPage {
		return c.Redirect(login.Path)
	}

	sessData := new(session.Data)
	_ = sessData.Read(loginCookie)

	if !sessData.SignedIn() && !isLoginPage {
		return c.Redirect(login.Path)
	}

	if sessData.SignedIn() && isLoginPage {
		return c.Redirect("/dashboard")
	}

	c.Locals(handler.SessionLocalsKey, sessData)

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())

	return strings.HasPrefix(originalURL, login.Path)
}
