package relational

import (
	"fmt"
	"slices"

	"github.com/iancoleman/strcase"

	"github.com/totegamma/rfb-playground/internal/domain"
)

// IDColumn is the surrogate key column shared by every table.
const IDColumn = "id"

// Table lists a table's persisted columns in the order its mapper reads them.
// Kinds types the columns list filters may compare; unlisted columns are Text.
type Table struct {
	Name    string
	Columns []string
	Kinds   map[string]Kind
}

// Project returns one "alias.column AS prefix_column" expression per column.
func (t Table) Project(alias, prefix string) []string {
	exprs := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		exprs = append(exprs, fmt.Sprintf("%s.%s AS %s", alias, column, label(prefix, column)))
	}
	return exprs
}

func (t Table) Has(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Column resolves an entity property such as "eventDate" to its column.
func (t Table) Column(property string) (string, error) {
	column := strcase.ToSnake(property)
	if !t.Has(column) {
		return "", domain.ValidationError{
			Resource: t.Name,
			Key:      "unknowncolumn",
			Message:  fmt.Sprintf("%s has no column for %q", t.Name, property),
		}
	}
	return column, nil
}

// Join is a many-to-one relation hydrated through a left outer join.
// Alias doubles as the column prefix of the joined projection.
type Join struct {
	Table      Table
	Alias      string
	ForeignKey string
}

func (j Join) clause(primaryAlias string) string {
	return fmt.Sprintf("LEFT OUTER JOIN %s %s ON %s.%s = %s.%s",
		j.Table.Name, j.Alias, primaryAlias, j.ForeignKey, j.Alias, IDColumn)
}

// Mapper builds an entity from the columns projected under prefix.
type Mapper[T any] func(row Row, prefix string) (T, error)

// Related maps the joined side of a row. It returns nil when the join found
// nothing, which shows up as every projected column being null.
func Related[T any](row Row, j Join, m Mapper[T]) (*T, error) {
	if row.AllNull(j.Alias, j.Table.Columns) {
		return nil, nil
	}
	v, err := m(row, j.Alias)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
