package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"waste-service/internal/apperror"
	"waste-service/internal/middleware"
	"waste-service/internal/service"
	"waste-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by handlers and middleware as
// {success: false, message, error}. Unknown errors become a logged 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	log := logger.FromEcho(c)

	status := http.StatusInternalServerError
	code := apperror.KindInternal.String()
	message := "internal server error"

	var appErr *apperror.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.Kind.HTTPStatus()
		code = appErr.Code
		message = appErr.Message
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", zap.String("code", code), zap.Error(err))
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		code = http.StatusText(status)
		message = fmt.Sprint(httpErr.Message)
	default:
		log.Error("Unhandled error", zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, echo.Map{
			"success": false,
			"message": message,
			"error":   code,
		})
	}
	if writeErr != nil {
		log.Error("Failed to write error response", zap.Error(writeErr))
	}
}

// respond writes a success body with the given fields
func respond(c echo.Context, status int, fields echo.Map) error {
	if fields == nil {
		fields = echo.Map{}
	}
	fields["success"] = true
	return c.JSON(status, fields)
}

// caller returns the identity placed by the session middleware
func caller(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return middleware.Identity{}, apperror.Unauthorized("not authorized, no token")
	}
	return id, nil
}

func actorOf(id middleware.Identity) service.Actor {
	return service.Actor{UserID: id.UserID, Role: id.Role}
}

// idParam parses a positive numeric path parameter
func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid %s", name)
	}
	return uint(id), nil
}

// intQuery parses an optional integer query parameter
func intQuery(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.Validation("%s must be a number", name)
	}
	return &n, nil
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
