package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/dmitrijs2005/videotube/internal/server/models"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	localsAccountKey = "account"
)

// extractAccessToken returns the bearer access token from the request. The
// cookie carrier wins over the Authorization header when both are present.
func extractAccessToken(c fiber.Ctx) string {
	if token := c.Cookies(accessTokenCookie); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return after
	}

	return ""
}

// requireAuth guards secured routes. Every failure mode (missing token, bad
// signature, expiry, unknown subject) produces the same 401 body; the
// distinction exists only in the log line. On success the resolved public
// identity is stored in the request's locals, scoped to this one request.
func (s *Server) requireAuth(c fiber.Ctx) error {
	token := extractAccessToken(c)
	if token == "" {
		s.logger.Debug(c.Context(), "auth rejected", "reason", "missing token")
		return s.unauthorized(c)
	}

	accountID, err := s.sessions.VerifyAccessToken(token)
	if err != nil {
		s.logger.Debug(c.Context(), "auth rejected", "reason", err.Error())
		return s.unauthorized(c)
	}

	account, err := s.accounts.GetPublic(c.Context(), accountID)
	if err != nil {
		s.logger.Debug(c.Context(), "auth rejected", "reason", "unknown subject")
		return s.unauthorized(c)
	}

	c.Locals(localsAccountKey, account)
	return c.Next()
}

// optionalAuth attaches the requester identity when a valid access token is
// present and proceeds regardless.
func (s *Server) optionalAuth(c fiber.Ctx) error {
	if token := extractAccessToken(c); token != "" {
		if accountID, err := s.sessions.VerifyAccessToken(token); err == nil {
			if account, err := s.accounts.GetPublic(c.Context(), accountID); err == nil {
				c.Locals(localsAccountKey, account)
			}
		}
	}
	return c.Next()
}

// withTimeout bounds every request's downstream work, including all record
// store calls, by the configured deadline.
func (s *Server) withTimeout(c fiber.Ctx) error {
	if s.requestTimeout <= 0 {
		return c.Next()
	}
	ctx, cancel := context.WithTimeout(c.Context(), s.requestTimeout)
	defer cancel()
	c.SetContext(ctx)
	return c.Next()
}

func (s *Server) unauthorized(c fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(apiError{
		StatusCode: http.StatusUnauthorized,
		Error:      "unauthorized request",
	})
}

// currentAccount returns the identity attached by requireAuth/optionalAuth,
// or nil when the request is unauthenticated.
func currentAccount(c fiber.Ctx) *models.AccountPublic {
	account, _ := c.Locals(localsAccountKey).(*models.AccountPublic)
	return account
}
