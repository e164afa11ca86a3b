package relational

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type owner struct {
	ID    *int64
	Label *string
}

type item struct {
	ID      *int64
	Name    *string
	OwnerID *int64
	Owner   *owner
}

func (i item) GetID() *int64 { return i.ID }

func (i item) Merge(patch item) item {
	if patch.ID != nil {
		i.ID = patch.ID
	}
	if patch.Name != nil {
		i.Name = patch.Name
	}
	if patch.OwnerID != nil {
		i.OwnerID = patch.OwnerID
	}
	return i
}

var ownerTable = Table{Name: "owner", Columns: []string{"id", "label"}}
var itemTable = Table{Name: "item", Columns: []string{"id", "name", "owner_id"}}
var ownerJoin = Join{Table: ownerTable, Alias: "item_owner", ForeignKey: "owner_id"}

func mapOwner(row Row, prefix string) (owner, error) {
	r := row.Reader(prefix)
	return owner{ID: Get[int64](r, "id"), Label: Get[string](r, "label")}, r.Err()
}

func mapItem(row Row, prefix string) (item, error) {
	r := row.Reader(prefix)
	return item{
		ID:      Get[int64](r, "id"),
		Name:    Get[string](r, "name"),
		OwnerID: Get[int64](r, "owner_id"),
	}, r.Err()
}

var itemSelect = Select[item]{
	Table: itemTable,
	Joins: []Join{ownerJoin},
	Hydrate: func(row Row) (item, error) {
		i, err := mapItem(row, PrimaryAlias)
		if err != nil {
			return i, err
		}
		i.Owner, err = Related(row, ownerJoin, mapOwner)
		return i, err
	},
}

func itemValues(i item) []Value {
	return []Value{
		{Column: "name", Value: i.Name},
		{Column: "owner_id", Value: i.OwnerID},
	}
}

func itemWithID(i item, id int64) item {
	i.ID = &id
	return i
}

type captureRecorder struct {
	mu  sync.Mutex
	ops []string
}

func (c *captureRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !success {
		op += "!"
	}
	c.ops = append(c.ops, op)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relational.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range []string{
		`CREATE TABLE seq (next_val INTEGER NOT NULL)`,
		`INSERT INTO seq (next_val) VALUES (0)`,
		`CREATE TABLE owner (id INTEGER PRIMARY KEY, label TEXT)`,
		`CREATE TABLE item (id INTEGER PRIMARY KEY, name TEXT, owner_id INTEGER)`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	return db
}

func newTestManager(t *testing.T, recorder Recorder) *EntityManager {
	t.Helper()
	return NewEntityManager(newTestDB(t), CounterIdentity{Table: "seq"}, recorder)
}

func ptr[V any](v V) *V {
	return &v
}
