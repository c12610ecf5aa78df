package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const serviceName = "loanflow-api"

// Handler serves the operational endpoints that sit outside the loan API.
type Handler struct {
	storeDriver string
}

func NewHandler(storeDriver string) *Handler {
	return &Handler{storeDriver: storeDriver}
}

// Health reports liveness plus the store backend the process booted with,
// so a probe can tell the demo (memory) deployment from a real one.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"store":   h.storeDriver,
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
