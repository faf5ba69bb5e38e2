package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateOnly is a calendar date without a time component. It marshals as
// "YYYY-MM-DD" and persists as a date truncated to midnight UTC.
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates t to its calendar date.
func NewDateOnly(t time.Time) DateOnly {
	y, m, d := t.Date()
	return DateOnly{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() DateOnly {
	return NewDateOnly(time.Now().UTC())
}

func (d DateOnly) String() string {
	return d.Format(dateLayout)
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	d.Time = t
	return nil
}

func (d DateOnly) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *DateOnly) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDateOnly(v)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", src)
	}
}

func (d *DateOnly) scanString(s string) error {
	// sqlite hands dates back as full timestamp strings
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02 15:04:05-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDateOnly(t)
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as date", s)
}
