package relational

import (
	"context"

	"github.com/pkg/errors"

	"github.com/totegamma/rfb-playground/internal/domain"
)

// Write is the outcome of dispatching a save: either Create or Update.
type Write[T any] interface {
	write()
}

// Create inserts an entity that has no id yet.
type Create[T any] struct {
	Entity T
}

// Update overwrites the row identified by ID.
type Update[T any] struct {
	ID     int64
	Entity T
}

func (Create[T]) write() {}
func (Update[T]) write() {}

// Dispatch picks the write path from the presence of an id.
func Dispatch[T domain.Entity[T]](entity T) Write[T] {
	if id := entity.GetID(); id != nil {
		return Update[T]{ID: *id, Entity: entity}
	}
	return Create[T]{Entity: entity}
}

// Writer persists one entity type through the entity manager.
type Writer[T domain.Entity[T]] struct {
	em       *EntityManager
	table    Table
	resource string
	values   func(T) []Value
	withID   func(T, int64) T
}

// NewWriter takes the column values of an entity (without id) and a function
// returning a copy of the entity carrying a new id.
func NewWriter[T domain.Entity[T]](em *EntityManager, table Table, resource string, values func(T) []Value, withID func(T, int64) T) *Writer[T] {
	return &Writer[T]{
		em:       em,
		table:    table,
		resource: resource,
		values:   values,
		withID:   withID,
	}
}

func (w *Writer[T]) Save(ctx context.Context, entity T) (T, error) {
	switch op := Dispatch(entity).(type) {
	case Create[T]:
		return w.Insert(ctx, op)
	case Update[T]:
		return w.Update(ctx, op)
	default:
		var zero T
		return zero, errors.Errorf("unknown write %T", op)
	}
}

func (w *Writer[T]) Insert(ctx context.Context, op Create[T]) (T, error) {
	id, err := w.em.Insert(ctx, w.table.Name, w.values(op.Entity))
	if err != nil {
		var zero T
		return zero, err
	}
	return w.withID(op.Entity, id), nil
}

// Update fails with domain.StaleEntityError when no row was touched.
func (w *Writer[T]) Update(ctx context.Context, op Update[T]) (T, error) {
	var zero T
	affected, err := w.em.Update(ctx, w.table.Name, op.ID, w.values(op.Entity))
	if err != nil {
		return zero, err
	}
	if affected <= 0 {
		return zero, domain.StaleEntityError{Resource: w.resource, ID: op.ID}
	}
	return op.Entity, nil
}

// PartialUpdate loads the stored entity, applies every non-nil field of patch
// and saves the result. A missing entity yields nil without an error.
func (w *Writer[T]) PartialUpdate(ctx context.Context, patch T, load func(context.Context, int64) (*T, error)) (*T, error) {
	id := patch.GetID()
	if id == nil {
		return nil, domain.ValidationError{Resource: w.resource, Key: "idnull", Message: "Invalid id"}
	}
	existing, err := load(ctx, *id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	saved, err := w.Save(ctx, (*existing).Merge(patch))
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
