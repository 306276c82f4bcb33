package monthversary

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// verifyRole checks a submitted username/password against one static role
// credential. Comparison is constant-time; any mismatch or missing input
// yields false.
func verifyRole(expected Credentials, username, password string) bool {
	if expected.Username == "" || expected.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(expected.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(expected.Password)) == 1
	return userOK && passOK
}

// VerifyEditor reports whether the credentials match the configured editor.
func (a *App) VerifyEditor(username, password string) bool {
	return verifyRole(a.Config.Admin, username, password)
}

// VerifyViewer reports whether the credentials match the configured viewer.
func (a *App) VerifyViewer(username, password string) bool {
	return verifyRole(a.Config.Viewer, username, password)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *App) handleLogin(c echo.Context) error {
	return a.login(c, a.Config.Admin, setEditorSession)
}

func (a *App) handleViewerLogin(c echo.Context) error {
	return a.login(c, a.Config.Viewer, setViewerSession)
}

func (a *App) login(c echo.Context, expected Credentials, mark func(echo.Context, string) error) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	if !verifyRole(expected, req.Username, req.Password) {
		a.loginLimiter.Record(c.RealIP())
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	if err := mark(c, req.Username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Login successful"})
}

func handleLogout(c echo.Context) error {
	if err := clearSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// handleCheckAuth reflects the editor flag only; the console polls it.
func handleCheckAuth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"authenticated": IsEditor(c)})
}
