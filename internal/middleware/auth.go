// Package middleware provides logging, metrics, session, and rate limiting
// middleware for the application.
package middleware

import (
	"context"
	"strconv"

	"dawgsocial/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the HTTP-only cookie carrying the session token.
const SessionCookie = "dawg_session"

var cfg *config.Config

// InitMiddleware initializes session middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// sessionUserID validates the session cookie and returns the authenticated
// user ID, or 0 when no valid session is present.
func sessionUserID(c *fiber.Ctx) uint {
	tokenString := c.Cookies(SessionCookie)
	if tokenString == "" {
		return 0
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return 0
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}

	// User ID travels in the "sub" claim (subject claim per RFC 7519)
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0
	}
	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0
	}
	return uint(userIDVal)
}

// setUser stores the authenticated user ID in Fiber locals and the request
// context, so handlers and the context-aware logger can read it.
func setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// SessionRequired enforces an authenticated session. Unauthenticated
// requests are redirected to the login page rather than rendered an error,
// matching the browser form flow.
func SessionRequired(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := sessionUserID(c)
		if userID == 0 {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		setUser(c, userID)
		return c.Next()
	}
}

// SessionOptional populates the user ID when a valid session cookie is
// present, and lets the request through either way.
func SessionOptional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID := sessionUserID(c); userID != 0 {
			setUser(c, userID)
		}
		return c.Next()
	}
}
