package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-ticketing/internal/service"
)

// StatisticsHandler exposes the dashboard counters and creation series.
type StatisticsHandler struct {
	stats *service.StatsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(statsService *service.StatsService) *StatisticsHandler {
	return &StatisticsHandler{stats: statsService}
}

// OpenCount handles GET /api/statistics/tickets/open/count.
func (h *StatisticsHandler) OpenCount(c *fiber.Ctx) error {
	count, err := h.stats.OpenCount(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// InProgressCount handles GET /api/statistics/tickets/in-progress/count.
func (h *StatisticsHandler) InProgressCount(c *fiber.Ctx) error {
	count, err := h.stats.InProgressCount(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// TotalCount handles GET /api/statistics/tickets/total/count.
func (h *StatisticsHandler) TotalCount(c *fiber.Ctx) error {
	count, err := h.stats.TotalCount(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// UrgentCount handles GET /api/statistics/tickets/urgent/count.
func (h *StatisticsHandler) UrgentCount(c *fiber.Ctx) error {
	count, err := h.stats.UrgentCount(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// OpenedSeries handles GET /api/statistics/tickets/opened. It always
// returns ten entries, one per day, oldest first.
func (h *StatisticsHandler) OpenedSeries(c *fiber.Ctx) error {
	series, err := h.stats.OpenedSeries(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": series})
}
