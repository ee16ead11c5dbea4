package financeiro

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

type Handler struct {
	svc      *Services
	notifier registry.Notifier
}

func NewHandler(svc *Services, n registry.Notifier) *Handler {
	return &Handler{svc: svc, notifier: n}
}

// RegisterRoutes mounts the billing collections and commands under g, the
// /financeiro group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	registry.NewHandler(h.svc.Guides, h.notifier).RegisterRoutes(g)
	registry.NewHandler(h.svc.Glosas, h.notifier).RegisterRoutes(g)
	registry.NewHandler(h.svc.Accounts, h.notifier).RegisterRoutes(g)

	g.GET("/guias/resumo", h.Summary)
	g.POST("/guias/:id/faturar", h.Bill)
	g.POST("/glosas/:id/tratamento", h.Treat)
	g.POST("/contas/transferencias", h.Transfer)
}

func (h *Handler) Summary(c echo.Context) error {
	f, err := registry.FilterFromContext(c, []string{"convenio"})
	if err != nil {
		return err
	}
	sum, err := h.svc.Summarize(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) Bill(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	res, err := h.svc.Bill(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	registry.Notify(c, h.notifier, Module, "guias", res)
	return c.JSON(res.HTTPStatus(false), res)
}

func (h *Handler) Treat(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req TreatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Treat(c.Request().Context(), id, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	registry.Notify(c, h.notifier, Module, "glosas", res)
	return c.JSON(res.HTTPStatus(false), res)
}

func (h *Handler) Transfer(c echo.Context) error {
	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Transfer(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	registry.Notify(c, h.notifier, Module, "contas", res)
	return c.JSON(res.HTTPStatus(false), res)
}
