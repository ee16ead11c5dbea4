package cadastro

import (
	"github.com/labstack/echo/v4"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

// RegisterRoutes mounts every registry under g, the /cadastro group.
func (s *Services) RegisterRoutes(g *echo.Group, n registry.Notifier) {
	registry.NewHandler(s.Procedures, n).RegisterRoutes(g)
	registry.NewHandler(s.Professionals, n).RegisterRoutes(g)
	registry.NewHandler(s.Containers, n).RegisterRoutes(g)
	registry.NewHandler(s.Payers, n).RegisterRoutes(g)
}
