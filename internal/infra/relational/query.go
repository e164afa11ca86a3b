package relational

import (
	"context"
	"iter"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/rfb-playground/internal/domain"
)

// PrimaryAlias is the alias and column prefix of the table being queried.
const PrimaryAlias = "e"

// Select describes how an entity is read: its table, the relations joined
// into the same row and the function assembling the aggregate from a row.
type Select[T any] struct {
	Table   Table
	Joins   []Join
	Hydrate func(row Row) (T, error)
}

// Composer builds and runs SELECT statements for one entity.
type Composer[T any] struct {
	em  *EntityManager
	sel Select[T]
}

func NewComposer[T any](em *EntityManager, sel Select[T]) *Composer[T] {
	return &Composer[T]{em: em, sel: sel}
}

func (c *Composer[T]) columns() []string {
	columns := c.sel.Table.Project(PrimaryAlias, PrimaryAlias)
	for _, j := range c.sel.Joins {
		columns = append(columns, j.Table.Project(j.Alias, j.Alias)...)
	}
	return columns
}

// Statement prepares the query without running it.
func (c *Composer[T]) Statement(ctx context.Context, criteria Criteria, page domain.Pageable) (*gorm.DB, error) {
	tx := c.em.DB(ctx).
		Table(c.sel.Table.Name + " " + PrimaryAlias).
		Select(c.columns())

	for _, j := range c.sel.Joins {
		tx = tx.Joins(j.clause(PrimaryAlias))
	}

	if len(criteria) > 0 {
		exprs, err := criteria.expressions(c.sel.Table, PrimaryAlias)
		if err != nil {
			return nil, err
		}
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}

	for _, o := range page.Sort {
		column, err := c.sel.Table.Column(o.Property)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Table: PrimaryAlias, Name: column},
			Desc:   o.Direction == domain.Desc,
		})
	}

	if page.IsPaged() {
		tx = tx.Limit(page.Size).Offset(page.Offset())
	}

	return tx, nil
}

// Stream runs the query lazily: nothing is sent to the database until the
// sequence is ranged over. Breaking out of the loop or cancelling ctx closes
// the cursor and hands the connection back to the pool.
func (c *Composer[T]) Stream(ctx context.Context, criteria Criteria, page domain.Pageable) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		var err error
		start := time.Now()
		defer func() { c.em.observe(ctx, c.sel.Table.Name, "select", start, err) }()

		tx, err := c.Statement(ctx, criteria, page)
		if err != nil {
			yield(zero, err)
			return
		}

		rows, err := tx.Rows()
		if err != nil {
			err = errors.Wrapf(err, "select %s", c.sel.Table.Name)
			yield(zero, err)
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			values := map[string]any{}
			err = tx.ScanRows(rows, &values)
			if err != nil {
				yield(zero, err)
				return
			}
			var entity T
			entity, err = c.sel.Hydrate(Row(values))
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(entity, nil) {
				return
			}
		}
		if err = rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}

// FindAll collects the stream.
func (c *Composer[T]) FindAll(ctx context.Context, criteria Criteria, page domain.Pageable) ([]T, error) {
	result := []T{}
	for entity, err := range c.Stream(ctx, criteria, page) {
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, nil
}

// FindByID returns nil without an error when no row matches.
func (c *Composer[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	for entity, err := range c.Stream(ctx, ByID(id), domain.Unpaged()) {
		if err != nil {
			return nil, err
		}
		return &entity, nil
	}
	return nil, nil
}

// Count counts the primary rows matching criteria.
func (c *Composer[T]) Count(ctx context.Context, criteria Criteria) (count int64, err error) {
	start := time.Now()
	defer func() { c.em.observe(ctx, c.sel.Table.Name, "count", start, err) }()

	tx := c.em.DB(ctx).Table(c.sel.Table.Name + " " + PrimaryAlias)
	if len(criteria) > 0 {
		var exprs []clause.Expression
		exprs, err = criteria.expressions(c.sel.Table, PrimaryAlias)
		if err != nil {
			return 0, err
		}
		tx = tx.Clauses(clause.Where{Exprs: exprs})
	}
	err = tx.Count(&count).Error
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", c.sel.Table.Name)
	}
	return count, nil
}
