package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/present/rest/presenter"
	"github.com/totegamma/rfb-playground/internal/usecase"
)

// resource serves the CRUD routes of one entity under /api/<path>.
type resource[T domain.Entity[T]] struct {
	config  domain.Config
	path    string
	uc      *usecase.CrudUsecase[T]
	unpaged bool // list returns everything, ignoring page and size
	stream  bool // list can answer application/x-ndjson
	filters map[string]func(context.Context) ([]T, error)
}

func (r *resource[T]) register(g *echo.Group) {
	g.POST("/"+r.path, r.handleCreate)
	g.PUT("/"+r.path+"/:id", r.handleUpdate)
	g.PATCH("/"+r.path+"/:id", r.handlePartialUpdate)
	g.GET("/"+r.path, r.handleList)
	g.GET("/"+r.path+"/:id", r.handleGet)
	g.DELETE("/"+r.path+"/:id", r.handleDelete)
}

func (r *resource[T]) fail(c echo.Context, err error) error {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return presenter.Invalid(c, verr)
	case errors.Is(err, domain.ErrStaleEntity):
		return presenter.Conflict(c, err)
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, err.Error())
	default:
		return presenter.InternalError(c, err)
	}
}

func (r *resource[T]) alert(c echo.Context, action domain.ChangeAction, id int64) {
	presenter.Alert(c, r.config.ApplicationName, r.uc.Entity(), action, strconv.FormatInt(id, 10))
}

func (r *resource[T]) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var entity T
	err := c.Bind(&entity)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	saved, err := r.uc.Create(ctx, entity)
	if err != nil {
		return r.fail(c, err)
	}

	id := *saved.GetID()
	r.alert(c, domain.ChangeCreated, id)
	return presenter.Created(c, fmt.Sprintf("/api/%s/%d", r.path, id), saved)
}

func (r *resource[T]) handleUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid id")
	}

	var entity T
	err = c.Bind(&entity)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	saved, err := r.uc.Update(ctx, id, entity)
	if err != nil {
		return r.fail(c, err)
	}

	r.alert(c, domain.ChangeUpdated, id)
	return presenter.OK(c, saved)
}

// handlePartialUpdate decodes the body itself: echo's binder does not accept
// the merge-patch media type.
func (r *resource[T]) handlePartialUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != domain.MIMEMergePatchJSON {
		return presenter.UnsupportedMediaType(c, contentType)
	}

	id, err := pathID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid id")
	}

	var patch T
	err = json.NewDecoder(c.Request().Body).Decode(&patch)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	saved, err := r.uc.PartialUpdate(ctx, id, patch)
	if err != nil {
		return r.fail(c, err)
	}
	if saved == nil {
		return presenter.NotFound(c, r.uc.Entity()+" not found")
	}

	r.alert(c, domain.ChangeUpdated, id)
	return presenter.OK(c, saved)
}

func (r *resource[T]) handleList(c echo.Context) error {
	ctx := c.Request().Context()

	if name := c.QueryParam("filter"); name != "" {
		filter, ok := r.filters[name]
		if !ok {
			return presenter.BadRequestMessage(c, fmt.Sprintf("unknown filter %q", name))
		}
		items, err := filter(ctx)
		if err != nil {
			return presenter.InternalError(c, err)
		}
		return presenter.OK(c, items)
	}

	filters, err := parseFilters(c)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	if r.stream && strings.Contains(c.Request().Header.Get(echo.HeaderAccept), domain.MIMENDJSON) {
		return r.streamList(c, filters)
	}

	pageable := domain.Unpaged()
	if !r.unpaged {
		pageable, err = parsePageable(c, r.config)
		if err != nil {
			return presenter.BadRequest(c, err)
		}
	}

	page, err := r.uc.FindAll(ctx, filters, pageable)
	if err != nil {
		return r.fail(c, err)
	}

	presenter.Pagination(c, page)
	return presenter.OK(c, page.Items)
}

// streamList writes one JSON document per line as rows arrive. Once the
// first line is out the status is fixed, so later failures only end the body.
func (r *resource[T]) streamList(c echo.Context, filters []domain.Filter) error {
	ctx := c.Request().Context()

	res := c.Response()
	started := false
	begin := func() {
		res.Header().Set(echo.HeaderContentType, domain.MIMENDJSON)
		res.WriteHeader(http.StatusOK)
		started = true
	}

	enc := json.NewEncoder(res)
	for entity, err := range r.uc.Stream(ctx, filters, domain.Unpaged()) {
		if err != nil {
			if !started {
				return r.fail(c, err)
			}
			slog.ErrorContext(
				ctx, "Stream aborted",
				slog.String("error", err.Error()),
				slog.String("resource", r.path),
				slog.String("module", "rest"),
			)
			return nil
		}
		if !started {
			begin()
		}
		if err := enc.Encode(entity); err != nil {
			return nil
		}
		res.Flush()
	}
	if !started {
		begin()
	}
	return nil
}

func (r *resource[T]) handleGet(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid id")
	}

	entity, err := r.uc.FindOne(ctx, id)
	if err != nil {
		return r.fail(c, err)
	}
	if entity == nil {
		return presenter.NotFound(c, r.uc.Entity()+" not found")
	}
	return presenter.OKWithETag(c, entity)
}

func (r *resource[T]) handleDelete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid id")
	}

	err = r.uc.Delete(ctx, id)
	if err != nil {
		return r.fail(c, err)
	}

	r.alert(c, domain.ChangeDeleted, id)
	return presenter.NoContent(c)
}

// parsePageable reads page, size and any number of sort=property[,asc|desc].
func parsePageable(c echo.Context, config domain.Config) (domain.Pageable, error) {
	p := domain.Pageable{Size: config.DefaultPageSize}

	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			return p, fmt.Errorf("invalid page %q", v)
		}
		p.Page = page
	}
	if v := c.QueryParam("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return p, fmt.Errorf("invalid size %q", v)
		}
		p.Size = size
	}
	if config.MaxPageSize > 0 && p.Size > config.MaxPageSize {
		p.Size = config.MaxPageSize
	}

	for _, v := range c.QueryParams()["sort"] {
		property, direction, _ := strings.Cut(v, ",")
		order := domain.Order{Property: property, Direction: domain.Asc}
		switch strings.ToLower(direction) {
		case "", "asc":
		case "desc":
			order.Direction = domain.Desc
		default:
			return p, fmt.Errorf("invalid sort direction %q", direction)
		}
		p.Sort = append(p.Sort, order)
	}

	return p, p.Validate()
}

// parseFilters reads every property.op=value parameter, e.g.
// runDayOfWeek.greaterThan=3 or id.in=1,2,3.
func parseFilters(c echo.Context) ([]domain.Filter, error) {
	var filters []domain.Filter
	for key, values := range c.QueryParams() {
		property, op, ok := strings.Cut(key, ".")
		if !ok {
			continue
		}
		if !domain.FilterOp(op).Valid() {
			return nil, fmt.Errorf("unknown filter operator %q", op)
		}
		for _, v := range values {
			filters = append(filters, domain.Filter{Property: property, Op: domain.FilterOp(op), Value: v})
		}
	}
	return filters, nil
}
