package relational

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/totegamma/rfb-playground/internal/domain"
)

type Operator int

const (
	Eq Operator = iota
	Ne
	Lt
	Le
	Gt
	Ge
	In
	Like
)

// Predicate compares a primary table column with a bound value.
// Eq and Ne against an untyped nil render IS NULL and IS NOT NULL.
type Predicate struct {
	Column string
	Op     Operator
	Value  any
}

// Criteria is a conjunction of predicates.
type Criteria []Predicate

func Where(column string, op Operator, value any) Criteria {
	return Criteria{{Column: column, Op: op, Value: value}}
}

func IsNull(column string) Criteria {
	return Where(column, Eq, nil)
}

func ByID(id int64) Criteria {
	return Where(IDColumn, Eq, id)
}

func (c Criteria) And(column string, op Operator, value any) Criteria {
	return append(c, Predicate{Column: column, Op: op, Value: value})
}

func (c Criteria) expressions(table Table, alias string) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(c))
	for _, p := range c {
		if !table.Has(p.Column) {
			return nil, domain.ValidationError{
				Resource: table.Name,
				Key:      "unknowncolumn",
				Message:  fmt.Sprintf("%s has no column %q", table.Name, p.Column),
			}
		}
		column := clause.Column{Table: alias, Name: p.Column}
		var expr clause.Expression
		switch p.Op {
		case Eq:
			expr = clause.Eq{Column: column, Value: p.Value}
		case Ne:
			expr = clause.Neq{Column: column, Value: p.Value}
		case Lt:
			expr = clause.Lt{Column: column, Value: p.Value}
		case Le:
			expr = clause.Lte{Column: column, Value: p.Value}
		case Gt:
			expr = clause.Gt{Column: column, Value: p.Value}
		case Ge:
			expr = clause.Gte{Column: column, Value: p.Value}
		case In:
			values, err := listValues(p.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "IN on %s", p.Column)
			}
			expr = clause.IN{Column: column, Values: values}
		case Like:
			expr = clause.Like{Column: column, Value: p.Value}
		default:
			return nil, fmt.Errorf("unknown operator %d", p.Op)
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// listValues spreads any slice or array into the bound values of an IN list.
func listValues(v any) ([]any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("needs a list, got %T", v)
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}
