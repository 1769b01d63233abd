// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod is a time of day stored in a TIME column.
type Tod struct{ time.Time }

// From keeps HH:mm:ss of t and drops date and zone.
func From(t time.Time) Tod {
	return Tod{
		Time: time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC),
	}
}

// ParseTod parses "HH:mm[:ss]".
func ParseTod(s string) (Tod, error) {
	var tt Tod
	return tt, tt.parse(s)
}

// Before compares clock times only.
func (t Tod) Before(o Tod) bool { return t.seconds() < o.seconds() }

func (t Tod) seconds() int { return t.Hour()*3600 + t.Minute()*60 + t.Second() }

func (t Tod) String() string { return t.Format("15:04") }

// Scan accepts time.Time or "HH:MM[:SS]" strings.
func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = From(x)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: %q is not HH:MM[:SS]", s)
	}
	t.Time = tt
	return nil
}

// Value sends "HH:MM:SS" so postgres TIME accepts it.
func (t Tod) Value() (driver.Value, error) {
	if t.Time.IsZero() {
		return "00:00:00", nil
	}
	return t.Format("15:04:05"), nil
}

func (Tod) GormDataType() string { return "time" }

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format("15:04"))
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
