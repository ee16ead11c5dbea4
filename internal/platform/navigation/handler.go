package navigation

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/navigation", h.Get)
}

// Get returns the shell for ?path=..., or every module menu when path is
// absent.
func (h *Handler) Get(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		out := make([]Menu, 0, len(Menus))
		for _, m := range Menus {
			out = append(out, m.clone())
		}
		return c.JSON(http.StatusOK, out)
	}
	menu, ok := Resolve(path)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown module")
	}
	return c.JSON(http.StatusOK, menu)
}
