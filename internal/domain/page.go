package domain

import (
	"fmt"
	"math"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order sorts by an entity property, e.g. "eventDate".
type Order struct {
	Property  string
	Direction Direction
}

// Pageable describes a page request. Size <= 0 means unpaged.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

func Unpaged() Pageable {
	return Pageable{}
}

func (p Pageable) IsPaged() bool {
	return p.Size > 0
}

// Validate rejects pages whose offset does not fit in an int.
func (p Pageable) Validate() error {
	if !p.IsPaged() {
		return nil
	}
	if p.Page < 0 || p.Page > math.MaxInt/p.Size {
		return fmt.Errorf("page %d out of range for size %d", p.Page, p.Size)
	}
	return nil
}

func (p Pageable) Offset() int {
	if !p.IsPaged() || p.Page < 0 {
		return 0
	}
	return p.Page * p.Size
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items    []T
	Total    int64
	Pageable Pageable
}

func (p Page[T]) TotalPages() int {
	if !p.Pageable.IsPaged() {
		return 1
	}
	size := int64(p.Pageable.Size)
	return int((p.Total + size - 1) / size)
}
