package middleware

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"document_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig configures bearer-token authentication.
type AuthConfig struct {
	// APIKey is a static bearer token. Matched first when set.
	APIKey string

	// JWTSecret enables HS256 JWT verification when set.
	JWTSecret string
}

// Enabled reports whether any credential check is configured.
func (c AuthConfig) Enabled() bool {
	return c.APIKey != "" || c.JWTSecret != ""
}

// BearerAuth validates the Authorization header against a static API key
// or an HS256 JWT. When neither is configured every request passes, which
// keeps local development friction-free.
func BearerAuth(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Skip auth for CORS preflight requests
		if c.Method() == "OPTIONS" {
			return c.Next()
		}

		if !cfg.Enabled() {
			return c.Next()
		}

		var tokenString string
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization"})
		}

		if cfg.APIKey != "" {
			if subtle.ConstantTimeCompare([]byte(tokenString), []byte(cfg.APIKey)) == 1 {
				c.Locals("auth_method", "api_key")
				return c.Next()
			}
			// Fall through to JWT verification when configured.
			if cfg.JWTSecret == "" {
				return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
			}
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unsupported signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil {
			logger.WithError(err).Warn("JWT validation failed")
			return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		}

		if !token.Valid {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "invalid claims"})
		}

		// Validate token expiration (exp claim)
		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				return c.Status(401).JSON(fiber.Map{
					"error": "token expired",
					"code":  "TOKEN_EXPIRED",
				})
			}
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Locals("subject", sub)
		}
		c.Locals("auth_method", "jwt")
		c.Locals("claims", claims)

		return c.Next()
	}
}
