package atendimento

import (
	"github.com/labstack/echo/v4"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

// RegisterRoutes mounts the patient registry under g, the /atendimento group.
func (s *Services) RegisterRoutes(g *echo.Group, n registry.Notifier) {
	registry.NewHandler(s.Patients, n).RegisterRoutes(g)
}
