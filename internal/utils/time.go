package util

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// ClockTime is a wall-clock time of day without a date or zone. Callers
// convert to the owner's local zone first; comparisons are zone-free.
type ClockTime struct {
	Hour   int
	Minute int
}

const clockLayout = "15:04"
const clockLayoutDB = "15:04:05"

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{Hour: hour, Minute: minute}
}

// ClockOf extracts the wall-clock component of t in t's location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) Before(other ClockTime) bool {
	return c.minutes() < other.minutes()
}

func (c ClockTime) After(other ClockTime) bool {
	return c.minutes() > other.minutes()
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := parseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c ClockTime) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", c.Hour, c.Minute), nil
}

func (c *ClockTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = ClockTime{}
		return nil
	case time.Time:
		*c = ClockOf(v)
		return nil
	case []byte:
		parsed, err := parseClock(string(v))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case string:
		parsed, err := parseClock(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan type %T into ClockTime", value)
	}
}

func parseClock(s string) (ClockTime, error) {
	t, err := time.Parse(clockLayoutDB, s)
	if err != nil {
		t, err = time.Parse(clockLayout, s)
		if err != nil {
			return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
		}
	}
	return ClockOf(t), nil
}
