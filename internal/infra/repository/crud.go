package repository

import (
	"context"
	"iter"

	"github.com/totegamma/rfb-playground/internal/domain"
	"github.com/totegamma/rfb-playground/internal/infra/relational"
)

// crudRepository carries the operations every entity repository shares.
type crudRepository[T domain.Entity[T]] struct {
	em    *relational.EntityManager
	table relational.Table
	query *relational.Composer[T]
	write *relational.Writer[T]
}

func newCrudRepository[T domain.Entity[T]](
	em *relational.EntityManager,
	resource string,
	sel relational.Select[T],
	values func(T) []relational.Value,
	withID func(T, int64) T,
) *crudRepository[T] {
	return &crudRepository[T]{
		em:    em,
		table: sel.Table,
		query: relational.NewComposer(em, sel),
		write: relational.NewWriter(em, sel.Table, resource, values, withID),
	}
}

// Save inserts when the entity has no id and updates otherwise.
func (r *crudRepository[T]) Save(ctx context.Context, entity T) (T, error) {
	return r.write.Save(ctx, entity)
}

func (r *crudRepository[T]) PartialUpdate(ctx context.Context, patch T) (*T, error) {
	return r.write.PartialUpdate(ctx, patch, r.FindByID)
}

func (r *crudRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return r.query.FindByID(ctx, id)
}

func (r *crudRepository[T]) FindAll(ctx context.Context, filters []domain.Filter, page domain.Pageable) ([]T, error) {
	criteria, err := r.table.Criteria(filters)
	if err != nil {
		return nil, err
	}
	return r.query.FindAll(ctx, criteria, page)
}

func (r *crudRepository[T]) Stream(ctx context.Context, filters []domain.Filter, page domain.Pageable) iter.Seq2[T, error] {
	criteria, err := r.table.Criteria(filters)
	if err != nil {
		return func(yield func(T, error) bool) {
			var zero T
			yield(zero, err)
		}
	}
	return r.query.Stream(ctx, criteria, page)
}

func (r *crudRepository[T]) Count(ctx context.Context, filters []domain.Filter) (int64, error) {
	criteria, err := r.table.Criteria(filters)
	if err != nil {
		return 0, err
	}
	return r.query.Count(ctx, criteria)
}

func (r *crudRepository[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.em.ExistsByID(ctx, r.table.Name, id)
}

func (r *crudRepository[T]) DeleteByID(ctx context.Context, id int64) error {
	return r.em.DeleteByID(ctx, r.table.Name, id)
}

func (r *crudRepository[T]) findBy(ctx context.Context, criteria relational.Criteria) ([]T, error) {
	return r.query.FindAll(ctx, criteria, domain.Unpaged())
}
