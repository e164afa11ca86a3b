package relational

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recorder receives the outcome of every statement the manager runs.
// op has the form "<table>.<verb>".
type Recorder interface {
	Observe(ctx context.Context, op string, success bool, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Observe(context.Context, string, bool, time.Duration) {}

// Value is one column assignment of a write.
type Value struct {
	Column string
	Value  any
}

// EntityManager owns the pooled execution handle and the identity strategy.
// Repositories share one manager.
type EntityManager struct {
	db       *gorm.DB
	ids      IdentityStrategy
	recorder Recorder
}

func NewEntityManager(db *gorm.DB, ids IdentityStrategy, recorder Recorder) *EntityManager {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &EntityManager{
		db:       db,
		ids:      ids,
		recorder: recorder,
	}
}

// DB returns the execution handle bound to ctx.
func (m *EntityManager) DB(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx)
}

func (m *EntityManager) observe(ctx context.Context, table, verb string, start time.Time, err error) {
	m.recorder.Observe(ctx, table+"."+verb, err == nil, time.Since(start))
}

// Insert persists values under a freshly drawn id and returns it.
func (m *EntityManager) Insert(ctx context.Context, table string, values []Value) (id int64, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, table, "insert", start, err) }()

	id, err = m.ids.Insert(ctx, m.DB(ctx), table, values)
	if err != nil {
		return 0, errors.Wrapf(err, "insert into %s", table)
	}
	return id, nil
}

// Update writes values to the row with the given id and reports how many
// rows the database touched.
func (m *EntityManager) Update(ctx context.Context, table string, id int64, values []Value) (affected int64, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, table, "update", start, err) }()

	sets := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for _, v := range values {
		sets = append(sets, v.Column+" = ?")
		args = append(args, v.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(sets, ", "), IDColumn)
	result := m.DB(ctx).Exec(query, args...)
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "update %s %d", table, id)
	}
	return result.RowsAffected, nil
}

// DeleteByID removes the row if present. Deleting a missing row is not an error.
func (m *EntityManager) DeleteByID(ctx context.Context, table string, id int64) (err error) {
	start := time.Now()
	defer func() { m.observe(ctx, table, "delete", start, err) }()

	err = m.DB(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, IDColumn), id).Error
	if err != nil {
		return errors.Wrapf(err, "delete %s %d", table, id)
	}
	return nil
}

func (m *EntityManager) ExistsByID(ctx context.Context, table string, id int64) (bool, error) {
	count, err := m.count(ctx, table, []clause.Expression{clause.Eq{Column: clause.Column{Name: IDColumn}, Value: id}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *EntityManager) count(ctx context.Context, table string, where []clause.Expression) (count int64, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, table, "count", start, err) }()

	tx := m.DB(ctx).Table(table)
	if len(where) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: where})
	}
	err = tx.Count(&count).Error
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", table)
	}
	return count, nil
}
