package repository

import (
	"context"

	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/infra/relational"
)

var attendanceTable = relational.Table{
	Name:    "rfb_event_attendance",
	Columns: []string{"id", "attendance_date", "rfb_event_id", "rfb_user_id"},
	Kinds: map[string]relational.Kind{
		"id":              relational.Integer,
		"attendance_date": relational.Date,
		"rfb_event_id":    relational.Integer,
		"rfb_user_id":     relational.Integer,
	},
}

var rfbEventJoin = relational.Join{
	Table:      eventTable,
	Alias:      "rfb_event",
	ForeignKey: "rfb_event_id",
}

var rfbUserJoin = relational.Join{
	Table:      userTable,
	Alias:      "rfb_user",
	ForeignKey: "rfb_user_id",
}

func mapAttendance(row relational.Row, prefix string) (domain.EventAttendance, error) {
	r := row.Reader(prefix)
	a := domain.EventAttendance{
		ID:             relational.Get[int64](r, "id"),
		AttendanceDate: relational.Get[domain.LocalDate](r, "attendance_date"),
		RfbEventID:     relational.Get[int64](r, "rfb_event_id"),
		RfbUserID:      relational.Get[int64](r, "rfb_user_id"),
	}
	return a, r.Err()
}

func hydrateAttendance(row relational.Row) (domain.EventAttendance, error) {
	a, err := mapAttendance(row, relational.PrimaryAlias)
	if err != nil {
		return a, err
	}
	a.RfbEvent, err = relational.Related(row, rfbEventJoin, mapEvent)
	if err != nil {
		return a, err
	}
	a.RfbUser, err = relational.Related(row, rfbUserJoin, mapUser)
	return a, err
}

func attendanceValues(a domain.EventAttendance) []relational.Value {
	return []relational.Value{
		{Column: "attendance_date", Value: domain.DateValue(a.AttendanceDate)},
		{Column: "rfb_event_id", Value: a.RfbEventID},
		{Column: "rfb_user_id", Value: a.RfbUserID},
	}
}

type AttendanceRepository struct {
	*crudRepository[domain.EventAttendance]
}

func NewAttendanceRepository(em *relational.EntityManager) *AttendanceRepository {
	sel := relational.Select[domain.EventAttendance]{
		Table:   attendanceTable,
		Joins:   []relational.Join{rfbEventJoin, rfbUserJoin},
		Hydrate: hydrateAttendance,
	}
	withID := func(a domain.EventAttendance, id int64) domain.EventAttendance {
		a.ID = &id
		return a
	}
	return &AttendanceRepository{
		crudRepository: newCrudRepository(em, domain.AttendanceEntity, sel, attendanceValues, withID),
	}
}

func (r *AttendanceRepository) FindByRfbEvent(ctx context.Context, eventID int64) ([]domain.EventAttendance, error) {
	return r.findBy(ctx, relational.Where("rfb_event_id", relational.Eq, eventID))
}

func (r *AttendanceRepository) FindAllWhereRfbEventIsNull(ctx context.Context) ([]domain.EventAttendance, error) {
	return r.findBy(ctx, relational.IsNull("rfb_event_id"))
}

func (r *AttendanceRepository) FindByRfbUser(ctx context.Context, userID int64) ([]domain.EventAttendance, error) {
	return r.findBy(ctx, relational.Where("rfb_user_id", relational.Eq, userID))
}

func (r *AttendanceRepository) FindAllWhereRfbUserIsNull(ctx context.Context) ([]domain.EventAttendance, error) {
	return r.findBy(ctx, relational.IsNull("rfb_user_id"))
}
