// Package navigation builds the sidebar menu and breadcrumbs of a page.
package navigation

import (
	"github.com/cancha-platform/cancha-admin/internal/auth"
	"github.com/cancha-platform/cancha-admin/internal/screen"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one sidebar entry. Entity entries only appear for roles
// that may at least view the screen.
type MenuItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActivePage  string
	PageTitle   string
	Breadcrumbs []BreadcrumbItem
	Menu        []MenuItem
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activePage string) *Context {
	return &Context{
		PageTitle:   pageTitle,
		ActivePage:  activePage,
		Breadcrumbs: make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithMenu fills the sidebar from the screen catalog, keeping only the
// screens the given roles may view.
func (c *Context) WithMenu(profile []byte, token string) *Context {
	c.Menu = append(c.Menu, MenuItem{
		Title:  "Inicio",
		URL:    "/dashboard",
		Active: c.ActivePage == "dashboard",
	})

	for _, schema := range screen.Catalog() {
		role := auth.Resolve(profile, token, schema.Permissions)
		if !schema.Permissions.For(role).CanView {
			continue
		}

		c.Menu = append(c.Menu, MenuItem{
			Title:  schema.Title,
			URL:    "/" + schema.Slug,
			Active: c.ActivePage == schema.Slug,
		})
	}

	return c
}

// IsActive checks if the given page matches the current context.
func (c *Context) IsActive(page string) bool {
	return c.ActivePage == page
}
