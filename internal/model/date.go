package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
}

// Date is a calendar date as the backend serializes it. Decoding never fails:
// a value that cannot be parsed keeps its original text in Raw and reports
// Valid() == false, so callers treat it as absent and can still display it.
type Date struct {
	Raw   string
	year  int
	month time.Month
	day   int
	valid bool
}

func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	return Date{Raw: t.Format(DateLayout), year: t.Year(), month: t.Month(), day: t.Day(), valid: true}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(raw string) Date {
	raw = strings.TrimSpace(raw)
	d := Date{Raw: raw}
	if raw == "" {
		return d
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			y, m, day := parsed.Date()
			d.year, d.month, d.day, d.valid = y, m, day, true
			return d
		}
	}
	return d
}

func (d Date) Valid() bool {
	return d.valid
}

// Time returns local midnight of the date.
func (d Date) Time() time.Time {
	if !d.valid {
		return time.Time{}
	}
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.Local)
}

// String renders the date as dd/mm/yyyy, or the raw text when it could not be parsed.
func (d Date) String() string {
	if !d.valid {
		return d.Raw
	}
	return d.Time().Format("02/01/2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.valid {
		if d.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(d.Raw)
	}
	return json.Marshal(d.Time().Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*d = Date{Raw: string(data)}
		return nil
	}
	*d = ParseDate(raw)
	return nil
}
