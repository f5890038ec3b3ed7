package middleware

import (
	"hostelgrievance/internal/config"
	"hostelgrievance/internal/pkg/jwt"
	"hostelgrievance/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the student session token.
const SessionCookieName = "token"

// LocalsStudentEmail is the key under which the authenticated student's
// email is stored in the request locals.
const LocalsStudentEmail = "studentEmail"

// StudentAuth guards routes that require an authenticated student
// session. A missing cookie yields 401; a bad or expired token yields
// 403 and the stale cookie is cleared.
func StudentAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		claims, err := jwt.ValidateSessionToken(token, cfg.JWT.Secret)
		if err != nil {
			clearSessionCookie(c, cfg)
			return response.Forbidden(c, "Session is invalid or expired")
		}

		c.Locals(LocalsStudentEmail, claims.Email)
		return c.Next()
	}
}

// StudentEmail returns the authenticated student's email from the
// request locals. Only valid after StudentAuth has run.
func StudentEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalsStudentEmail).(string)
	return email
}

// SetSessionCookie writes the session cookie on a successful login.
func SetSessionCookie(c *fiber.Ctx, cfg *config.Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		MaxAge:   cfg.JWT.SessionDays * 24 * 60 * 60,
		HTTPOnly: true,
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
		Domain:   cfg.Cookie.Domain,
		Path:     "/",
	})
}

func clearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
		Domain:   cfg.Cookie.Domain,
		Path:     "/",
	})
}

// ClearSessionCookie expires the session cookie (logout).
func ClearSessionCookie(c *fiber.Ctx, cfg *config.Config) {
	clearSessionCookie(c, cfg)
}
