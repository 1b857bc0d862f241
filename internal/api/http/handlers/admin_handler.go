package handlers

import (
	"fmt"
	"html"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/config"
)

const flashCookieName = "admin_flash"

// AdminHandler serves the cookie-session admin web flow.
type AdminHandler struct {
	guard *auth.SessionGuard
	cfg   config.SessionConfig
}

// NewAdminHandler constructs handler.
func NewAdminHandler(guard *auth.SessionGuard, cfg config.SessionConfig) *AdminHandler {
	return &AdminHandler{guard: guard, cfg: cfg}
}

// ShowLogin handles GET /admin/login.
func (h *AdminHandler) ShowLogin(c *fiber.Ctx) error {
	flash := c.Cookies(flashCookieName)
	if flash != "" {
		h.clearCookie(c, flashCookieName)
	}

	errorBlock := ""
	if flash != "" {
		errorBlock = fmt.Sprintf(`<p class="error">%s</p>`, html.EscapeString(flash))
	}
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Admin Login</title></head>
<body>
<h1>Admin Login</h1>
%s
<form method="POST" action="/admin/login">
  <label>Email <input type="email" name="email" required></label>
  <label>Password <input type="password" name="password" required></label>
  <button type="submit">Log in</button>
</form>
</body>
</html>`, errorBlock)

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(page)
}

// Login handles POST /admin/login. On success the session identifier is
// regenerated and the browser is sent to the dashboard; on failure the user
// is sent back to the form with a generic message.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	session, err := h.guard.Login(c.UserContext(), c.Cookies(h.cfg.CookieName), email, password)
	if err != nil {
		h.setFlash(c, auth.AdminLoginFailedMessage)
		return c.Redirect("/admin/login", fiber.StatusSeeOther)
	}

	h.setSessionCookies(c, session)
	return c.Redirect("/admin/dashboard", fiber.StatusSeeOther)
}

// Logout handles POST /admin/logout. The session is destroyed and the CSRF
// token rotated; logging out twice is harmless.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	sessionID := c.Cookies(h.cfg.CookieName)
	if sessionID != "" {
		if _, session, err := h.guard.Authenticate(c.UserContext(), sessionID); err == nil {
			if c.FormValue("_token") != session.CSRFToken {
				h.setFlash(c, "Page expired, please try again.")
				return c.Redirect("/admin/dashboard", fiber.StatusSeeOther)
			}
		}
		_ = h.guard.Logout(c.UserContext(), sessionID)
	}

	h.clearCookie(c, h.cfg.CookieName)
	h.clearCookie(c, h.cfg.CSRFCookie)
	return c.Redirect("/admin/login", fiber.StatusSeeOther)
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	user, session, ok := auth.AdminFromContext(c)
	if !ok {
		return c.Redirect("/admin/login", fiber.StatusSeeOther)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Admin Dashboard</title></head>
<body>
<h1>Welcome, %s</h1>
<form method="POST" action="/admin/logout">
  <input type="hidden" name="_token" value="%s">
  <button type="submit">Log out</button>
</form>
</body>
</html>`, html.EscapeString(user.Name), html.EscapeString(session.CSRFToken))

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(page)
}

func (h *AdminHandler) setSessionCookies(c *fiber.Ctx, session *auth.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    session.ID,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.cfg.TTL()),
	})
	// readable by the frontend so forms can echo it back
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CSRFCookie,
		Value:    session.CSRFToken,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.cfg.TTL()),
	})
}

func (h *AdminHandler) setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    message,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Minute),
	})
}

func (h *AdminHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:    name,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
	})
}
