// Package middleware holds the request middleware shared across routes.
package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/aviranmz/thedude/internal/config"
)

// Paths reachable without a bearer token. Redirect resolution must stay open
// so issued links work in end-user browsers.
var publicPrefixes = []string{
	"/r/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/home.html",
	"/static",
	"/favicon.ico",
}

// AuthMiddleware enforces bearer authentication for API callers. Two token
// forms are accepted: the shared static API key, or an HMAC-signed JWT issued
// to partner services.
type AuthMiddleware struct {
	cfg *config.Config
}

func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// RequireAuth validates the Authorization header on protected routes.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.cfg.AuthEnabled() {
		return c.Next()
	}

	// CORS preflight carries no credentials.
	if c.Method() == fiber.MethodOptions {
		return c.Next()
	}

	path := c.Path()
	if path == "/" {
		return c.Next()
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return c.Next()
		}
	}

	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return unauthorized(c, "missing bearer token")
	}

	if m.cfg.APIKey != "" && token == m.cfg.APIKey {
		return c.Next()
	}

	if m.cfg.JWTSecret != "" {
		claims, err := m.verifyJWT(token)
		if err == nil {
			if sub, _ := claims.GetSubject(); sub != "" {
				c.Locals("partner", sub)
			}
			return c.Next()
		}
	}

	return unauthorized(c, "invalid bearer token")
}

func (m *AuthMiddleware) verifyJWT(token string) (jwt.Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(m.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, err
	}
	return parsed.Claims, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func unauthorized(c fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":  "unauthorized",
		"detail": detail,
	})
}
