package domain

import (
	"encoding/json"
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestMatches_EmptyFiltersPassEverything(t *testing.T) {
	var f SearchFilters
	if !f.IsEmpty() {
		t.Fatal("zero filters should be empty")
	}
	if !f.Matches(Course{}) {
		t.Error("empty filters must match a bare course")
	}
}

func TestMatches_TextCaseInsensitive(t *testing.T) {
	f := SearchFilters{Level: "beginner"}
	course := Course{Level: strPtr("Beginner")}
	if !f.Matches(course) {
		t.Error("expected case-insensitive level match")
	}

	f.Level = "advanced"
	if f.Matches(course) {
		t.Error("expected level mismatch to exclude course")
	}
}

func TestMatches_MissingFieldNeverExcludes(t *testing.T) {
	f := SearchFilters{Category: "Programming", Language: "English"}
	if !f.Matches(Course{}) {
		t.Error("courses without the filtered field must pass")
	}
	if !f.Matches(Course{Category: strPtr(""), Language: strPtr("")}) {
		t.Error("courses with empty filtered fields must pass")
	}
}

func TestMatches_MaxPriceInclusive(t *testing.T) {
	f := SearchFilters{MaxPrice: NewMaxPrice(50)}

	if !f.Matches(Course{Price: floatPtr(50)}) {
		t.Error("price equal to the cap must pass")
	}
	if f.Matches(Course{Price: floatPtr(50.01)}) {
		t.Error("price above the cap must be excluded")
	}
	if !f.Matches(Course{}) {
		t.Error("course without a price counts as free and must pass")
	}
}

func TestMaxPrice_UnmarshalVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    float64
		wantSet bool
	}{
		{"number", `{"max_price": 25.5}`, 25.5, true},
		{"numeric string", `{"max_price": "30"}`, 30, true},
		{"padded numeric string", `{"max_price": " 12.5 "}`, 12.5, true},
		{"null ignored", `{"max_price": null}`, 0, false},
		{"garbage string ignored", `{"max_price": "cheap"}`, 0, false},
		{"object ignored", `{"max_price": {"value": 10}}`, 0, false},
		{"absent", `{}`, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var f SearchFilters
			if err := json.Unmarshal([]byte(tc.payload), &f); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			got, set := f.MaxPrice.Cap()
			if set != tc.wantSet {
				t.Fatalf("set = %v, want %v", set, tc.wantSet)
			}
			if set && got != tc.want {
				t.Errorf("cap = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	if (SearchFilters{Level: "x"}).IsEmpty() {
		t.Error("level filter should not be empty")
	}
	if (SearchFilters{MaxPrice: NewMaxPrice(0)}).IsEmpty() {
		t.Error("price cap of 0 is still a set filter")
	}
}
