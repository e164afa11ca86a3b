package usecase

import (
	"context"
	"iter"

	"github.com/totegamma/rfb-playground/internal/domain"
)

// CrudRepository is the storage contract shared by every entity.
// Lookups that find nothing return nil without an error.
type CrudRepository[T any] interface {
	Save(ctx context.Context, entity T) (T, error)
	PartialUpdate(ctx context.Context, patch T) (*T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	FindAll(ctx context.Context, filters []domain.Filter, page domain.Pageable) ([]T, error)
	Stream(ctx context.Context, filters []domain.Filter, page domain.Pageable) iter.Seq2[T, error]
	Count(ctx context.Context, filters []domain.Filter) (int64, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

type LocationRepository interface {
	CrudRepository[domain.Location]
}

type UserRepository interface {
	CrudRepository[domain.User]
	FindByHomeLocation(ctx context.Context, locationID int64) ([]domain.User, error)
	FindAllWhereHomeLocationIsNull(ctx context.Context) ([]domain.User, error)
}

type EventRepository interface {
	CrudRepository[domain.Event]
	FindByRfbLocation(ctx context.Context, locationID int64) ([]domain.Event, error)
	FindAllWhereRfbLocationIsNull(ctx context.Context) ([]domain.Event, error)
}

type AttendanceRepository interface {
	CrudRepository[domain.EventAttendance]
	FindByRfbEvent(ctx context.Context, eventID int64) ([]domain.EventAttendance, error)
	FindAllWhereRfbEventIsNull(ctx context.Context) ([]domain.EventAttendance, error)
	FindByRfbUser(ctx context.Context, userID int64) ([]domain.EventAttendance, error)
	FindAllWhereRfbUserIsNull(ctx context.Context) ([]domain.EventAttendance, error)
}

// ChangePublisher broadcasts committed writes.
type ChangePublisher interface {
	Publish(ctx context.Context, change domain.Change) error
}
