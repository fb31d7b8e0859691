package model

import (
	"bytes"
	"encoding/json"
)

// Flag is a boolean that the backend may send as true, "true", 1 or "1".
// Every other representation decodes to false.
type Flag bool

func NormalizeFlag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case json.Number:
		return v.String() == "1"
	case Flag:
		return bool(v)
	default:
		return false
	}
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		*f = false
		return nil
	}
	*f = Flag(NormalizeFlag(value))
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}
