package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck dependencia verificada por /health.
type HealthCheck struct {
	Name     string
	Ping     func(ctx context.Context) error
	Optional bool // si falla, el servicio queda "degraded" en vez de "down"
}

// HealthHandler estado del servicio y sus dependencias.
type HealthHandler struct {
	service string
	checks  []HealthCheck
	timeout time.Duration
}

// NewHealthHandler construye el handler.
func NewHealthHandler(service string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{service: service, checks: checks, timeout: 2 * time.Second}
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	status := "ok"
	deps := fiber.Map{}
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			deps[chk.Name] = err.Error()
			if chk.Optional {
				if status == "ok" {
					status = "degraded"
				}
				continue
			}
			status = "down"
			continue
		}
		deps[chk.Name] = "ok"
	}
	code := fiber.StatusOK
	if status == "down" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"status": status, "service": h.service, "dependencies": deps})
}
