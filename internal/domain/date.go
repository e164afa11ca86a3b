package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// LocalDate is a calendar date without time zone, serialized as YYYY-MM-DD.
type LocalDate struct {
	time.Time
}

func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return LocalDate{}, err
	}
	return LocalDate{Time: t}, nil
}

func (d LocalDate) String() string {
	return d.Format(DateLayout)
}

func (d LocalDate) Equal(other LocalDate) bool {
	return d.String() == other.String()
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *LocalDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateValue converts an optional date into a bind parameter.
func DateValue(d *LocalDate) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// Scan implements sql.Scanner. Drivers hand dates back either as time.Time
// or as text depending on the column affinity.
func (d *LocalDate) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewLocalDate(v.Year(), v.Month(), v.Day())
		return nil
	case []byte:
		return d.scanText(string(v))
	case string:
		return d.scanText(v)
	}
	return fmt.Errorf("cannot scan %T into LocalDate", src)
}

func (d *LocalDate) scanText(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d LocalDate) Value() (driver.Value, error) {
	return d.String(), nil
}
