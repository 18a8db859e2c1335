package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Numeric holds a numeric field exactly as the user typed it. The store API
// accepts both JSON strings and JSON numbers for these fields (records saved
// before any edit carry numbers, edited records carry strings), so Numeric
// unmarshals from either and marshals back without reformatting.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = Numeric(num.String())
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// Blank reports whether the field has no user input at all.
func (n Numeric) Blank() bool {
	return strings.TrimSpace(string(n)) == ""
}

// Value coerces the raw input to a number. Blank or unparseable input maps to
// zero; coercion never fails, matching how the form treats in-progress typing.
func (n Numeric) Value() float64 {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
