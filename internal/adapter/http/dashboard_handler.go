package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loanflow-backend/internal/usecase/metrics"
)

type DashboardHandler struct{ agg *metrics.Aggregator }

func NewDashboardHandler(agg *metrics.Aggregator) *DashboardHandler {
	return &DashboardHandler{agg: agg}
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.agg.Stats())
}

func (h *DashboardHandler) Chart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.agg.Chart())
}
