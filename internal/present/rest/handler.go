package rest

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/present/rest/presenter"
	"github.com/totegamma/rfb-playground/internal/service"
	"github.com/totegamma/rfb-playground/internal/usecase"
)

type Handler struct {
	config     domain.Config
	location   *usecase.LocationUsecase
	user       *usecase.UserUsecase
	event      *usecase.EventUsecase
	attendance *usecase.AttendanceUsecase
	signal     *service.SignalService
}

// NewHandler wires the api. signal may be nil, which disables /api/changes.
func NewHandler(
	config domain.Config,
	location *usecase.LocationUsecase,
	user *usecase.UserUsecase,
	event *usecase.EventUsecase,
	attendance *usecase.AttendanceUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		config:     config,
		location:   location,
		user:       user,
		event:      event,
		attendance: attendance,
		signal:     signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	locations := &resource[domain.Location]{
		config: h.config,
		path:   "rfb-locations",
		uc:     h.location.CrudUsecase,
	}
	users := &resource[domain.User]{
		config:  h.config,
		path:    "rfb-users",
		uc:      h.user.CrudUsecase,
		unpaged: true,
		stream:  true,
		filters: map[string]func(context.Context) ([]domain.User, error){
			"homelocation-is-null": h.user.FindWithoutHomeLocation,
		},
	}
	events := &resource[domain.Event]{
		config: h.config,
		path:   "rfb-events",
		uc:     h.event.CrudUsecase,
		filters: map[string]func(context.Context) ([]domain.Event, error){
			"rfblocation-is-null": h.event.FindWithoutRfbLocation,
		},
	}
	attendances := &resource[domain.EventAttendance]{
		config: h.config,
		path:   "rfb-event-attendances",
		uc:     h.attendance.CrudUsecase,
		filters: map[string]func(context.Context) ([]domain.EventAttendance, error){
			"rfbevent-is-null": h.attendance.FindWithoutRfbEvent,
			"rfbuser-is-null":  h.attendance.FindWithoutRfbUser,
		},
	}

	locations.register(api)
	users.register(api)
	events.register(api)
	attendances.register(api)

	api.GET("/rfb-locations/:id/rfb-events", related(h.event.FindByRfbLocation))
	api.GET("/rfb-locations/:id/rfb-users", related(h.user.FindByHomeLocation))
	api.GET("/rfb-events/:id/rfb-event-attendances", related(h.attendance.FindByRfbEvent))
	api.GET("/rfb-users/:id/rfb-event-attendances", related(h.attendance.FindByRfbUser))

	if h.signal != nil {
		api.GET("/changes", h.handleRealtime)
	}
}

// related lists the entities referencing the one named by :id.
func related[T any](find func(context.Context, int64) ([]T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid id")
		}
		items, err := find(c.Request().Context(), id)
		if err != nil {
			return presenter.InternalError(c, err)
		}
		return presenter.OK(c, items)
	}
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
