package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campuskit/institute-api/internal/authz"
	"github.com/campuskit/institute-api/internal/utils"
)

// PrincipalKey is the Locals key carrying the authenticated principal.
const PrincipalKey = "principal"

// JWTProtected returns a middleware that validates JWT bearer tokens and
// binds the authenticated principal to the request.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		principal := principalFromClaims(claims)
		if principal.UserID == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals(PrincipalKey, principal)
		c.Locals("user_id", principal.UserID)
		c.Locals("user_role", principal.Role)

		return c.Next()
	}
}

// PrincipalFromCtx returns the principal bound by JWTProtected, if any.
func PrincipalFromCtx(c *fiber.Ctx) (authz.Principal, bool) {
	principal, ok := c.Locals(PrincipalKey).(authz.Principal)
	return principal, ok
}

func principalFromClaims(claims jwt.MapClaims) authz.Principal {
	return authz.Principal{
		UserID:      claimString(claims, "sub", "user_id", "id"),
		Name:        claimString(claims, "name"),
		Email:       claimString(claims, "email"),
		Role:        strings.ToLower(claimString(claims, "role")),
		InstituteID: claimString(claims, "institute_id"),
	}
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		value, ok := claims[key]
		if !ok {
			continue
		}
		if str, ok := value.(string); ok {
			if trimmed := strings.TrimSpace(str); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
