package relational

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/totegamma/rfb-playground/internal/domain"
)

// Kind tells how a filter value received as text is bound to a column.
type Kind int

const (
	Text Kind = iota
	Integer
	Date
)

func (k Kind) parse(raw string) (any, error) {
	switch k {
	case Integer:
		return strconv.ParseInt(raw, 10, 64)
	case Date:
		d, err := domain.ParseLocalDate(raw)
		if err != nil {
			return nil, err
		}
		return domain.DateValue(&d), nil
	}
	return raw, nil
}

var comparisons = map[domain.FilterOp]Operator{
	domain.FilterEquals:             Eq,
	domain.FilterNotEquals:          Ne,
	domain.FilterGreaterThan:        Gt,
	domain.FilterGreaterThanOrEqual: Ge,
	domain.FilterLessThan:           Lt,
	domain.FilterLessThanOrEqual:    Le,
}

// Criteria translates filters on entity properties into criteria on t.
func (t Table) Criteria(filters []domain.Filter) (Criteria, error) {
	var criteria Criteria
	for _, f := range filters {
		column, err := t.Column(f.Property)
		if err != nil {
			return nil, err
		}
		kind := t.Kinds[column]

		invalid := func(cause error) error {
			return domain.ValidationError{
				Resource: t.Name,
				Key:      "badfilter",
				Message:  fmt.Sprintf("%s.%s=%s: %v", f.Property, f.Op, f.Value, cause),
			}
		}

		switch f.Op {
		case domain.FilterIn:
			parts := strings.Split(f.Value, ",")
			values := make([]any, 0, len(parts))
			for _, part := range parts {
				v, err := kind.parse(strings.TrimSpace(part))
				if err != nil {
					return nil, invalid(err)
				}
				values = append(values, v)
			}
			criteria = criteria.And(column, In, values)
		case domain.FilterContains:
			if kind != Text {
				return nil, invalid(fmt.Errorf("contains needs a text column"))
			}
			criteria = criteria.And(column, Like, "%"+f.Value+"%")
		case domain.FilterSpecified:
			specified, err := strconv.ParseBool(f.Value)
			if err != nil {
				return nil, invalid(err)
			}
			if specified {
				criteria = criteria.And(column, Ne, nil)
			} else {
				criteria = criteria.And(column, Eq, nil)
			}
		default:
			op, ok := comparisons[f.Op]
			if !ok {
				return nil, invalid(fmt.Errorf("unknown operator"))
			}
			v, err := kind.parse(f.Value)
			if err != nil {
				return nil, invalid(err)
			}
			criteria = criteria.And(column, op, v)
		}
	}
	return criteria, nil
}
