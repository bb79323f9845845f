package handler

import (
	"errors"
	"net/http"
	"time"

	"evolv-store/internal/api"
	"evolv-store/internal/cache"
	"evolv-store/internal/database"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// @Summary     Health check
// @Description Reports service health and verifies Postgres and Redis connectivity
// @Tags        health
// @Produce     json
// @Success     200 {object} api.Response
// @Failure     500 {object} api.Response
// @Router      /health [get]
func HealthHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("database unhealthy"))
		}
		// A miss is fine; only transport errors mean Redis is down.
		if err := rdb.Get(c.Request().Context(), "health").Err(); err != nil && !errors.Is(err, redis.Nil) {
			return c.JSON(http.StatusInternalServerError, api.Error("cache unhealthy"))
		}
		return c.JSON(http.StatusOK, api.Success("evolv backend up", map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}))
	}
}
