package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// SearchFilters narrows a search candidate set after vector retrieval.
// Absent fields never exclude a course.
type SearchFilters struct {
	Level    string   `json:"level"`
	Category string   `json:"category"`
	Language string   `json:"language"`
	MaxPrice MaxPrice `json:"max_price"`
}

// IsEmpty reports whether no filter field is set.
func (f SearchFilters) IsEmpty() bool {
	return f.Level == "" && f.Category == "" && f.Language == "" && !f.MaxPrice.set
}

// Matches reports whether the course passes every set filter. Text filters are
// case-insensitive exact matches that only apply when the course carries the
// field. The price cap is inclusive; a course without a price counts as 0.
func (f SearchFilters) Matches(c Course) bool {
	if !matchText(c.Level, f.Level) {
		return false
	}
	if !matchText(c.Category, f.Category) {
		return false
	}
	if !matchText(c.Language, f.Language) {
		return false
	}
	if f.MaxPrice.set {
		price := 0.0
		if c.Price != nil {
			price = *c.Price
		}
		if price > f.MaxPrice.value {
			return false
		}
	}
	return true
}

func matchText(field *string, want string) bool {
	if want == "" || field == nil || *field == "" {
		return true
	}
	return strings.EqualFold(*field, want)
}

// MaxPrice is an inclusive price ceiling. Malformed values are ignored rather
// than rejected: JSON numbers and numeric strings set the cap, anything else
// leaves it unset.
type MaxPrice struct {
	value float64
	set   bool
}

// NewMaxPrice creates a set price cap.
func NewMaxPrice(v float64) MaxPrice {
	return MaxPrice{value: v, set: true}
}

// Cap returns the ceiling value and whether it is set.
func (m MaxPrice) Cap() (float64, bool) { return m.value, m.set }

// UnmarshalJSON accepts a number or a numeric string. Nulls and garbage leave
// the cap unset and never fail the surrounding decode.
func (m *MaxPrice) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		m.value, m.set = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			m.value, m.set = v, true
		}
	}
	return nil
}
