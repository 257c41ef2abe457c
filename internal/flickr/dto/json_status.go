// Package dto holds the JSON response schemas of the Flickr REST methods
// used by grabflickr.
package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is the envelope shared by every Flickr JSON response.
//
//	{"stat": "fail", "code": 1, "message": "Photoset not found"}
type Status struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OK reports whether the call succeeded.
func (s Status) OK() bool {
	return s.Stat == "ok"
}

// FlexInt decodes integers that Flickr sends either as JSON numbers or as
// quoted strings ("per_page": "500", "pages": 3).
type FlexInt int

// UnmarshalJSON accepts 3, "3", "" and null.
func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*fi = 0
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return fi.parse(string(n))
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flexint: %w", err)
	}
	return fi.parse(s)
}

func (fi *FlexInt) parse(s string) error {
	if s == "" {
		*fi = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("flexint: invalid value %q", s)
	}
	*fi = FlexInt(v)
	return nil
}
