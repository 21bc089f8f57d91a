package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"meetly/core/cache"
	"meetly/core/controller"
	"meetly/core/errors"
	"meetly/core/logger"
	"meetly/core/utils"
)

const contextUserIDKey = "user_id"

type Middleware struct {
	cache *cache.Cache
}

func NewMiddleware(c *cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the Bearer token, rejects blacklisted (logged
// out) tokens and stores the authenticated user id on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.Fields(auth)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid authorization format")
			}
			token := parts[1]

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("AuthMiddleware:IsTokenBlacklisted:Error", "error", err)
				} else if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token is no longer valid")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "malformed user id in token")
			}

			c.Set(contextUserIDKey, userID)
			c.Set("access_token", token)
			return next(c)
		}
	}
}

// GetUserID reads the authenticated user id set by AuthMiddleware.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(contextUserIDKey).(uuid.UUID)
	return id, ok
}

// GetAccessToken returns the raw bearer token for logout blacklisting.
func GetAccessToken(c echo.Context) string {
	token, _ := c.Get("access_token").(string)
	return token
}
