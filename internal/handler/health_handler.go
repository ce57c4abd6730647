package handler

import (
	"context"
	"net/http"
	"time"

	"waste-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger checks that the database answers
type Pinger func(ctx context.Context) error

// HealthCheck reports liveness and, with ?check=db, database reachability
func HealthCheck(ping Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		response := map[string]interface{}{
			"success": true,
			"status":  "ok",
			"time":    time.Now().Format(time.RFC3339),
		}

		if c.QueryParam("check") == "db" {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()

			if err := ping(ctx); err != nil {
				logger.FromEcho(c).Error("Database ping error", zap.Error(err))
				response["success"] = false
				response["status"] = "error"
				response["db_status"] = "error"
				return c.JSON(http.StatusServiceUnavailable, response)
			}
			response["db_status"] = "ok"
		}

		return c.JSON(http.StatusOK, response)
	}
}
