package authflow

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Sammy-Dev/COVID-Guard/internal/accounts"
	"github.com/Sammy-Dev/COVID-Guard/internal/apperr"
	"github.com/Sammy-Dev/COVID-Guard/internal/token"
)

const (
	localUserID   = "user_id"
	localUserType = "user_type"
)

// Guard gates private operations for one user-type variant. It verifies the
// bearer token and attaches the resolved identity to the request; it never
// queries the store.
func Guard(tokens *token.Issuer, userType accounts.UserType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return apperr.Unauthorized("No token, authorisation denied")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperr.Unauthorized("Token is not valid")
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil || claims.UserType != string(userType) {
			return apperr.Unauthorized("Token is not valid")
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localUserType, claims.UserType)
		return c.Next()
	}
}

// CallerID returns the user id the Guard attached, or "" outside a guarded
// route.
func CallerID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localUserID).(string); ok {
		return v
	}
	return ""
}
