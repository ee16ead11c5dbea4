package laboratorio

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labsuite/labsuite/internal/platform/registry"
	"github.com/labsuite/labsuite/pkg/pagination"
)

type Handler struct {
	svc      *Services
	notifier registry.Notifier
}

func NewHandler(svc *Services, n registry.Notifier) *Handler {
	return &Handler{svc: svc, notifier: n}
}

// RegisterRoutes mounts samples and batches under lab (/laboratorio) and the
// transfer batches under transfer (/transferencia).
func (h *Handler) RegisterRoutes(lab, transfer *echo.Group) {
	registry.NewHandler(h.svc.Samples, h.notifier).RegisterRoutes(lab)
	lab.GET("/amostras/disponiveis", h.Available)

	registry.NewHandler(h.svc.Batches, h.notifier).
		WithCreate(h.createBatch(Module, "")).
		RegisterRoutes(lab)

	registry.NewHandler(h.svc.TransferBatches, h.notifier).
		WithCreate(h.createBatch(TransferModule, KindTransfer)).
		RegisterRoutes(transfer)
	transfer.POST("/lotes/:id/enviar", h.Dispatch)
}

// Available lists the samples the batch dialog can offer.
func (h *Handler) Available(c echo.Context) error {
	f, err := registry.FilterFromContext(c, h.svc.Samples.Config().CategoryKeys)
	if err != nil {
		return err
	}
	items, err := h.svc.Available(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	pg := pagination.FromContext(c)
	start, end := pg.Window(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], len(items), pg.Limit, pg.Offset))
}

// createBatch serves the batch dialog's confirm. A non-empty kind overrides
// the one in the body.
func (h *Handler) createBatch(module, kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req BatchRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if kind != "" {
			req.Kind = kind
		}
		res, err := h.svc.CreateBatch(c.Request().Context(), req)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		registry.Notify(c, h.notifier, module, "lotes", res)
		return c.JSON(res.HTTPStatus(true), res)
	}
}

func (h *Handler) Dispatch(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	res, err := h.svc.Dispatch(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	registry.Notify(c, h.notifier, TransferModule, "lotes", res)
	return c.JSON(res.HTTPStatus(false), res)
}
