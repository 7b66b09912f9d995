package domain

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Spreadsheet-backed rows come back with loosely typed cells: numbers may be
// strings, ids may be numbers, and multi-select columns may be either a JSON
// array or a comma separated string. The types below absorb that at decode
// time so the rest of the code sees one shape.

// Amount is a numeric cell. Empty or non-numeric strings decode to 0.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(f)
		return nil
	}
	if bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")) {
		*a = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

func (a Amount) Float() float64 { return float64(a) }

// FlexString is an identifier that may be sent as a JSON number or string.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(string(b))
	return nil
}

func (s FlexString) String() string { return string(s) }

// WorkTypeList decodes either ["a","b"] or "a, b".
type WorkTypeList []string

func (w *WorkTypeList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*w = nil
		return nil
	}
	if b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*w = normalizeWorkTypes(items)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*w = ParseWorkTypes(s)
	return nil
}

// ParseWorkTypes splits a comma separated work type cell.
func ParseWorkTypes(s string) WorkTypeList {
	return normalizeWorkTypes(strings.Split(s, ","))
}

func normalizeWorkTypes(items []string) WorkTypeList {
	out := make(WorkTypeList, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (w WorkTypeList) String() string {
	return strings.Join(w, ", ")
}
