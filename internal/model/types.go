package model

import (
    "database/sql/driver"
    "encoding/json"
    "fmt"
    "strings"
    "time"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day, stored in a DATE column
// and serialized as "YYYY-MM-DD".
type Date struct{ time.Time }

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
    t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
    if err != nil {
        return Date{}, err
    }
    return Date{t}, nil
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
    y, m, d := t.UTC().Date()
    return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(DateLayout) }

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date { return Date{d.Time.AddDate(0, 0, n)} }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
    if d.IsZero() {
        return []byte("null"), nil
    }
    return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return err
    }
    if s == "" {
        *d = Date{}
        return nil
    }
    parsed, err := ParseDate(s)
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}

// Scan implements sql.Scanner.  With parseTime=true the MySQL driver hands
// DATE columns over as time.Time; raw bytes are accepted as well.
func (d *Date) Scan(src any) error {
    switch v := src.(type) {
    case nil:
        *d = Date{}
        return nil
    case time.Time:
        *d = DateOf(v)
        return nil
    case []byte:
        return d.scanString(string(v))
    case string:
        return d.scanString(v)
    }
    return fmt.Errorf("model: cannot scan %T into Date", src)
}

func (d *Date) scanString(s string) error {
    if len(s) > len(DateLayout) {
        s = s[:len(DateLayout)]
    }
    parsed, err := ParseDate(s)
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
    if d.IsZero() {
        return nil, nil
    }
    return d.String(), nil
}

// ParseClock normalizes a wall-clock time given as "HH:MM" or "HH:MM:SS"
// into "HH:MM:SS".
func ParseClock(s string) (string, error) {
    s = strings.TrimSpace(s)
    for _, layout := range []string{"15:04:05", "15:04"} {
        if t, err := time.Parse(layout, s); err == nil {
            return t.Format("15:04:05"), nil
        }
    }
    return "", fmt.Errorf("invalid time %q", s)
}

// StringList is a JSON array column (images).
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
    var raw []byte
    switch v := src.(type) {
    case nil:
        *l = nil
        return nil
    case []byte:
        raw = v
    case string:
        raw = []byte(v)
    default:
        return fmt.Errorf("model: cannot scan %T into StringList", src)
    }
    if len(raw) == 0 {
        *l = nil
        return nil
    }
    return json.Unmarshal(raw, (*[]string)(l))
}

// Value implements driver.Valuer.  Empty lists are stored as NULL.
func (l StringList) Value() (driver.Value, error) {
    if len(l) == 0 {
        return nil, nil
    }
    b, err := json.Marshal([]string(l))
    if err != nil {
        return nil, err
    }
    return string(b), nil
}
