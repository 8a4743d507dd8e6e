package seats

import (
	"reflect"
	"testing"
)

func TestNormalizeSeatList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json array",
			raw:  `["A1","A2","B5"]`,
			want: []string{"A1", "A2", "B5"},
		},
		{
			name: "comma joined",
			raw:  "A1,A2,B5",
			want: []string{"A1", "A2", "B5"},
		},
		{
			name: "comma joined with spaces",
			raw:  " A1 , A2 , B5 ",
			want: []string{"A1", "A2", "B5"},
		},
		{
			name: "single bare label",
			raw:  "C7",
			want: []string{"C7"},
		},
		{
			name: "lowercase normalized",
			raw:  "a1,b2",
			want: []string{"A1", "B2"},
		},
		{
			name: "broken json falls back to comma split",
			raw:  `["A1","A2`,
			want: []string{"A1", "A2"},
		},
		{
			name: "quote and bracket pollution stripped",
			raw:  `'A1', "B2", [C3]`,
			want: []string{"A1", "B2", "C3"},
		},
		{
			name: "duplicates removed",
			raw:  "A1,A1,A2",
			want: []string{"A1", "A2"},
		},
		{
			name: "empty string",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: nil,
		},
		{
			name: "empty json array",
			raw:  "[]",
			want: nil,
		},
		{
			name: "empty segments skipped",
			raw:  "A1,,B2,",
			want: []string{"A1", "B2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSeatList(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeSeatList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeSeatListRoundTrip(t *testing.T) {
	labels := []string{"A1", "B12", "H3"}
	got := NormalizeSeatList(EncodeSeatList(labels))
	if !reflect.DeepEqual(got, labels) {
		t.Errorf("round trip = %v, want %v", got, labels)
	}
}

func TestValidSeatLabel(t *testing.T) {
	const rows, seatsPerRow = 8, 12

	tests := []struct {
		label string
		want  bool
	}{
		{"A1", true},
		{"A12", true},
		{"H1", true},
		{"H12", true},
		{"A0", false},   // seat numbers are 1-based
		{"A13", false},  // beyond seatsPerRow
		{"I1", false},   // beyond last row
		{"a1", false},   // labels are normalized before validation
		{"A", false},    // missing number
		{"1A", false},   // row letter first
		{"AB", false},   // not a number
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ValidSeatLabel(tt.label, rows, seatsPerRow); got != tt.want {
				t.Errorf("ValidSeatLabel(%q, %d, %d) = %v, want %v", tt.label, rows, seatsPerRow, got, tt.want)
			}
		})
	}
}

func TestSortSeatLabels(t *testing.T) {
	labels := []string{"B2", "A10", "A2", "B1", "A1"}
	SortSeatLabels(labels)

	// Numeric ordering within a row: A2 before A10
	want := []string{"A1", "A2", "A10", "B1", "B2"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("SortSeatLabels = %v, want %v", labels, want)
	}
}

func TestIntersectSeatLists(t *testing.T) {
	tests := []struct {
		name      string
		lists     []string
		requested []string
		want      []string
	}{
		{
			name:      "json list overlap",
			lists:     []string{`["A1","A2"]`},
			requested: []string{"A2", "A3"},
			want:      []string{"A2"},
		},
		{
			name:      "comma list with lowercase",
			lists:     []string{"b4, b5"},
			requested: []string{"B5"},
			want:      []string{"B5"},
		},
		{
			name:      "no overlap",
			lists:     []string{`["C1"]`, "C2"},
			requested: []string{"D1", "D2"},
			want:      nil,
		},
		{
			name:      "duplicate across lists reported once",
			lists:     []string{`["A1"]`, "A1,A2"},
			requested: []string{"A1", "A2"},
			want:      []string{"A1", "A2"},
		},
		{
			name:      "sorted numerically within row",
			lists:     []string{"A10,A2"},
			requested: []string{"A10", "A2"},
			want:      []string{"A2", "A10"},
		},
		{
			name:      "empty lists",
			lists:     nil,
			requested: []string{"A1"},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntersectSeatLists(tt.lists, tt.requested)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IntersectSeatLists(%v, %v) = %v, want %v", tt.lists, tt.requested, got, tt.want)
			}
		})
	}
}
