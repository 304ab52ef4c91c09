package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. It's always held as
// midnight UTC so stored values compare the same way on every driver.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date t falls on in its own location
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}

	return DateOf(t), nil
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string, %w", err)
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be formatted as YYYY-MM-DD, %w", err)
	}

	*d = parsed
	return nil
}

// GormDataType keeps the column a plain DATE instead of a timestamp
func (Date) GormDataType() string {
	return "date"
}

// Value implements the driver.Valuer interface.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements the sql.Scanner interface. Drivers hand dates back
// either as time.Time or as text depending on the column affinity.
func (d *Date) Scan(value any) error {
	switch val := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(val)
	case string:
		return d.scanString(val)
	case []byte:
		return d.scanString(string(val))
	default:
		return fmt.Errorf("failed to scan Date, %v", value)
	}

	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("failed to scan Date, %q", s)
	}

	parsed, err := ParseDate(s[:len(DateLayout)])
	if err != nil {
		return fmt.Errorf("failed to scan Date, %w", err)
	}

	*d = parsed
	return nil
}
