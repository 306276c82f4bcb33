package monthversary

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// handlePublicSlides serves the published deck to viewers. Unpublished
// slides never appear here.
func (a *App) handlePublicSlides(c echo.Context) error {
	slides, err := a.Cache.PublishedSlides()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slides)
}

// handlePublicSettings serves the public settings projection.
func (a *App) handlePublicSettings(c echo.Context) error {
	settings, err := a.Cache.PublicSettings()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

func handleIndex(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/wrapped")
}

func (a *App) handleLoginPage(c echo.Context) error {
	if IsEditor(c) {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	return a.servePage(c, "login.html")
}

func (a *App) handleViewLoginPage(c echo.Context) error {
	if IsViewer(c) {
		return c.Redirect(http.StatusSeeOther, "/wrapped")
	}
	return a.servePage(c, "view-login.html")
}

func (a *App) handleAdminPage(c echo.Context) error {
	return a.servePage(c, "admin.html")
}

func (a *App) handlePresentationPage(c echo.Context) error {
	return a.servePage(c, "presentation.html")
}

func (a *App) servePage(c echo.Context, name string) error {
	data, err := StaticAssets.ReadFile("static/" + name)
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, data)
}

// httpErrorHandler is the outermost line of defense: API clients get a
// structured {"error": ...} body, pages get plain text, and 5xx faults are
// logged without leaking internals.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Something went wrong"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		msg = "Something went wrong"
	} else if code == http.StatusNotFound && msg == http.StatusText(http.StatusNotFound) {
		msg = "Page not found"
	}

	path := c.Request().URL.Path
	wantsJSON := strings.HasPrefix(path, "/api/") || c.Request().Method != http.MethodGet ||
		path == "/check-auth"
	if wantsJSON {
		_ = c.JSON(code, echo.Map{"error": msg})
		return
	}
	_ = c.String(code, msg)
}
