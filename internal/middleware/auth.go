package middleware

import (
	"strings"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/pkg/jwtutil"
	"waste-service/pkg/logger"
	"waste-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "token"

const identityKey = "identity"

// Identity is the authenticated caller, decoded once per request
type Identity struct {
	UserID uint
	Email  string
	Role   model.Role
}

// IsAdmin reports whether the caller is an administrator
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// TokenValidator verifies session tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwtutil.SessionClaims, error)
}

// SessionMiddleware validates the session token from the cookie, or from a
// Bearer header for non-browser clients, and stores the caller's Identity
func SessionMiddleware(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			tokenString := tokenFromRequest(c)
			if tokenString == "" {
				prometheus.RecordAuthError("missing_token")
				return apperror.Unauthorized("not authorized, no token")
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid session token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return apperror.Unauthorized("not authorized, token failed")
			}

			role := model.Role(claims.Role)
			if !role.Valid() {
				prometheus.RecordAuthError("unknown_role")
				return apperror.Unauthorized("not authorized, token failed")
			}

			c.Set(identityKey, Identity{UserID: claims.UserID, Email: claims.Email, Role: role})
			log = log.With(zap.Uint("user_id", claims.UserID))
			c.Set("logger", log)
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), log)))

			return next(c)
		}
	}
}

// RequireRole lets the request through only when the caller holds one of roles
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				prometheus.RecordAuthError("missing_token")
				return apperror.Unauthorized("not authorized, no token")
			}

			for _, role := range roles {
				if id.Role == role {
					return next(c)
				}
			}

			logger.FromEcho(c).Warn("Role not permitted",
				zap.String("role", string(id.Role)),
				zap.String("path", c.Path()))
			prometheus.RecordAuthError("forbidden_role")
			return apperror.Forbidden("access denied for role " + string(id.Role))
		}
	}
}

// IdentityFrom returns the caller stored by SessionMiddleware
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
