package relational

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// IdentityStrategy assigns the id of a new row and performs the insert.
type IdentityStrategy interface {
	Insert(ctx context.Context, db *gorm.DB, table string, values []Value) (int64, error)
}

// SequenceIdentity draws ids from a database sequence shared by all tables.
type SequenceIdentity struct {
	Sequence string
}

func (s SequenceIdentity) Insert(ctx context.Context, db *gorm.DB, table string, values []Value) (int64, error) {
	var id int64
	err := db.Raw("SELECT nextval(?)", s.Sequence).Scan(&id).Error
	if err != nil {
		return 0, err
	}
	if err := insertWithID(db, table, id, values); err != nil {
		return 0, err
	}
	return id, nil
}

// CounterIdentity keeps the next id in a single row counter table, for
// databases without sequences. The increment and the insert share a
// transaction.
type CounterIdentity struct {
	Table string
}

func (c CounterIdentity) Insert(ctx context.Context, db *gorm.DB, table string, values []Value) (int64, error) {
	var id int64
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(fmt.Sprintf("UPDATE %s SET next_val = next_val + 1 RETURNING next_val", c.Table)).Scan(&id).Error
		if err != nil {
			return err
		}
		if id == 0 {
			return fmt.Errorf("identity counter %s is not initialised", c.Table)
		}
		return insertWithID(tx, table, id, values)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertWithID(db *gorm.DB, table string, id int64, values []Value) error {
	columns := make([]string, 0, len(values)+1)
	marks := make([]string, 0, len(values)+1)
	args := make([]any, 0, len(values)+1)

	columns = append(columns, IDColumn)
	marks = append(marks, "?")
	args = append(args, id)
	for _, v := range values {
		columns = append(columns, v.Column)
		marks = append(marks, "?")
		args = append(args, v.Value)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(marks, ", "))
	return db.Exec(query, args...).Error
}
