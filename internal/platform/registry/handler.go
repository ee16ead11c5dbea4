package registry

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/labsuite/labsuite/pkg/pagination"
)

// EmptyMessage is shown when a filtered list has no rows.
const EmptyMessage = "Nenhum registro encontrado"

// ListResponse is a page of a filtered collection.
type ListResponse struct {
	*pagination.Response
	Filter  Filter `json:"filter"`
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// Handler serves the list, form and command routes of one collection.
type Handler[T Entity] struct {
	svc      *Service[T]
	notifier Notifier
	create   echo.HandlerFunc
}

func NewHandler[T Entity](svc *Service[T], notifier Notifier) *Handler[T] {
	return &Handler[T]{svc: svc, notifier: notifier}
}

// WithCreate replaces the generic create route, for collections whose
// records are created through a dialog.
func (h *Handler[T]) WithCreate(fn echo.HandlerFunc) *Handler[T] {
	h.create = fn
	return h
}

// RegisterRoutes mounts the collection under g, which is the module group
// (for example /api/v1/cadastro).
func (h *Handler[T]) RegisterRoutes(g *echo.Group) {
	base := "/" + h.svc.cfg.Collection
	create := h.Create
	if h.create != nil {
		create = h.create
	}

	g.GET(base, h.List)
	g.GET(base+"/"+NewID, h.Show)
	g.POST(base, create)
	g.POST(base+"/"+NewID, create)
	g.GET(base+"/:id", h.Show)
	g.GET(base+"/:id/editar", h.Edit)
	g.PUT(base+"/:id", h.Update)
	g.POST(base+"/:id/status", h.ToggleStatus)
	g.DELETE(base+"/:id", h.Delete)
}

func (h *Handler[T]) List(c echo.Context) error {
	f, err := FilterFromContext(c, h.svc.cfg.CategoryKeys)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pg := pagination.FromContext(c)
	start, end := pg.Window(len(items))
	resp := ListResponse{
		Response: pagination.NewResponse(items[start:end], len(items), pg.Limit, pg.Offset),
		Filter:   f,
	}
	if len(items) == 0 {
		resp.Empty = true
		resp.Message = EmptyMessage
	}
	return c.JSON(http.StatusOK, resp)
}

// Show serves both /novo and /:id; ?edit=true opens the record editable.
func (h *Handler[T]) Show(c echo.Context) error {
	idParam := c.Param("id")
	if idParam == "" {
		idParam = NewID
	}
	edit, _ := strconv.ParseBool(c.QueryParam("edit"))
	return h.form(c, idParam, edit)
}

func (h *Handler[T]) Edit(c echo.Context) error {
	return h.form(c, c.Param("id"), true)
}

func (h *Handler[T]) form(c echo.Context, idParam string, edit bool) error {
	view, err := h.svc.Form(c.Request().Context(), idParam, edit)
	if errors.Is(err, ErrNotFound) {
		res := NotFound[T](h.svc.NotFoundMessage())
		res.Redirect = h.svc.BasePath()
		return c.JSON(res.HTTPStatus(false), res)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler[T]) Create(c echo.Context) error {
	v := h.svc.cfg.New()
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.GetRecord().ID = uuid.Nil

	another, _ := strconv.ParseBool(c.QueryParam("another"))
	res, err := h.svc.Save(c.Request().Context(), v, SaveOptions{Another: another})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.Respond(c, res, true)
}

func (h *Handler[T]) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	v := h.svc.cfg.New()
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.GetRecord().ID = id

	res, err := h.svc.Save(c.Request().Context(), v, SaveOptions{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.Respond(c, res, false)
}

func (h *Handler[T]) ToggleStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	res, err := h.svc.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.Respond(c, res, false)
}

func (h *Handler[T]) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
	res, err := h.svc.Delete(c.Request().Context(), id, confirmed)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.Respond(c, res, false)
}

// Respond publishes res as a toast and writes it as the response body. A
// confirmation prompt is answered to the caller only.
func (h *Handler[T]) Respond(c echo.Context, res Result[T], created bool) error {
	if res.Outcome != OutcomeConfirmationRequired {
		Notify(c, h.notifier, h.svc.cfg.Module, h.svc.cfg.Collection, res)
	}
	return c.JSON(res.HTTPStatus(created), res)
}

// Notify publishes res on the caller's client topic, or on the collection
// topic when the request carries no client id.
func Notify[T Entity](c echo.Context, n Notifier, module, collection string, res Result[T]) {
	if n == nil {
		return
	}
	topic := CollectionTopic(module, collection)
	if id := c.Request().Header.Get(ClientIDHeader); id != "" {
		topic = ClientTopic(id)
	}
	t := Toast{
		Topic:      topic,
		Collection: collection,
		Outcome:    string(res.Outcome),
		Level:      res.Level(),
		Message:    res.Message,
		Redirect:   res.Redirect,
	}
	var zero T
	if any(res.Record) != any(zero) {
		t.RecordID = res.Record.GetRecord().ID.String()
	}
	n.Notify(c.Request().Context(), t)
}
