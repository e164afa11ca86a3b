package domain

// FilterOp is the suffix of a list filter parameter, as in eventCode.contains=Q.
type FilterOp string

const (
	FilterEquals             FilterOp = "equals"
	FilterNotEquals          FilterOp = "notEquals"
	FilterGreaterThan        FilterOp = "greaterThan"
	FilterGreaterThanOrEqual FilterOp = "greaterThanOrEqual"
	FilterLessThan           FilterOp = "lessThan"
	FilterLessThanOrEqual    FilterOp = "lessThanOrEqual"
	FilterIn                 FilterOp = "in"
	FilterContains           FilterOp = "contains"
	FilterSpecified          FilterOp = "specified"
)

var filterOps = map[FilterOp]bool{
	FilterEquals:             true,
	FilterNotEquals:          true,
	FilterGreaterThan:        true,
	FilterGreaterThanOrEqual: true,
	FilterLessThan:           true,
	FilterLessThanOrEqual:    true,
	FilterIn:                 true,
	FilterContains:           true,
	FilterSpecified:          true,
}

func (op FilterOp) Valid() bool {
	return filterOps[op]
}

// Filter restricts a listing by one entity property. Value is kept as
// received; "in" takes a comma separated list and "specified" a boolean.
type Filter struct {
	Property string
	Op       FilterOp
	Value    string
}
