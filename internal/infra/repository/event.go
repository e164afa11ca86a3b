package repository

import (
	"context"

	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/infra/relational"
)

var eventTable = relational.Table{
	Name:    "rfb_event",
	Columns: []string{"id", "event_date", "event_code", "rfb_location_id"},
	Kinds: map[string]relational.Kind{
		"id":              relational.Integer,
		"event_date":      relational.Date,
		"rfb_location_id": relational.Integer,
	},
}

var rfbLocationJoin = relational.Join{
	Table:      locationTable,
	Alias:      "rfb_location",
	ForeignKey: "rfb_location_id",
}

func mapEvent(row relational.Row, prefix string) (domain.Event, error) {
	r := row.Reader(prefix)
	e := domain.Event{
		ID:            relational.Get[int64](r, "id"),
		EventDate:     relational.Get[domain.LocalDate](r, "event_date"),
		EventCode:     relational.Get[string](r, "event_code"),
		RfbLocationID: relational.Get[int64](r, "rfb_location_id"),
	}
	return e, r.Err()
}

func hydrateEvent(row relational.Row) (domain.Event, error) {
	e, err := mapEvent(row, relational.PrimaryAlias)
	if err != nil {
		return e, err
	}
	e.RfbLocation, err = relational.Related(row, rfbLocationJoin, mapLocation)
	return e, err
}

func eventValues(e domain.Event) []relational.Value {
	return []relational.Value{
		{Column: "event_date", Value: domain.DateValue(e.EventDate)},
		{Column: "event_code", Value: e.EventCode},
		{Column: "rfb_location_id", Value: e.RfbLocationID},
	}
}

type EventRepository struct {
	*crudRepository[domain.Event]
}

func NewEventRepository(em *relational.EntityManager) *EventRepository {
	sel := relational.Select[domain.Event]{
		Table:   eventTable,
		Joins:   []relational.Join{rfbLocationJoin},
		Hydrate: hydrateEvent,
	}
	withID := func(e domain.Event, id int64) domain.Event {
		e.ID = &id
		return e
	}
	return &EventRepository{
		crudRepository: newCrudRepository(em, domain.EventEntity, sel, eventValues, withID),
	}
}

func (r *EventRepository) FindByRfbLocation(ctx context.Context, locationID int64) ([]domain.Event, error) {
	return r.findBy(ctx, relational.Where("rfb_location_id", relational.Eq, locationID))
}

func (r *EventRepository) FindAllWhereRfbLocationIsNull(ctx context.Context) ([]domain.Event, error) {
	return r.findBy(ctx, relational.IsNull("rfb_location_id"))
}
