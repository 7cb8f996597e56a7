package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/wine_catalog/pkg/db"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/response"
)

type HealthHTTP struct {
	DB          *gorm.DB
	Environment string
}

type healthStatus struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

func (h *HealthHTTP) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthStatus{
		Success:     true,
		Message:     "Server is running",
		Timestamp:   time.Now().UTC(),
		Environment: h.Environment,
	})
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Ready fails while the database cannot be reached.
func (h *HealthHTTP) Ready(c echo.Context) error {
	if err := pkgdb.Ping(c.Request().Context(), h.DB); err != nil {
		logging.FromContext(c.Request().Context()).Warn("readiness_failed", "error", err)
		return response.Fail(c, http.StatusServiceUnavailable, "database unavailable")
	}
	return c.NoContent(http.StatusOK)
}
