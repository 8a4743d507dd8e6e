package seats

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// NormalizeSeatList decodes a stored seat list that may use any of the
// legacy encodings: a JSON array, a comma-joined string, or a single bare
// label. When JSON parsing fails the fallback is comma-split plus stripping
// bracket/quote characters rather than dropping the value: silently losing
// a seat hold would let a double-booking through, which is the worse
// failure mode.
func NormalizeSeatList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return cleanLabels(parsed)
		}
	}

	return cleanLabels(strings.Split(raw, ","))
}

func cleanLabels(parts []string) []string {
	seen := make(map[string]struct{}, len(parts))
	var labels []string
	for _, part := range parts {
		label := strings.ToUpper(strings.Trim(part, " \t\"'[]"))
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

// IntersectSeatLists reports which of the requested labels appear in any of
// the stored seat lists, each decoded with NormalizeSeatList. The result is
// deduplicated and sorted.
func IntersectSeatLists(lists []string, requested []string) []string {
	if len(lists) == 0 || len(requested) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(requested))
	for _, label := range requested {
		wanted[label] = struct{}{}
	}

	seen := make(map[string]struct{})
	var conflicting []string
	for _, list := range lists {
		for _, label := range NormalizeSeatList(list) {
			if _, ok := wanted[label]; !ok {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			conflicting = append(conflicting, label)
		}
	}
	SortSeatLabels(conflicting)
	return conflicting
}

// EncodeSeatList serializes seat labels for the denormalized booking column.
func EncodeSeatList(labels []string) string {
	data, err := json.Marshal(labels)
	if err != nil {
		return strings.Join(labels, ",")
	}
	return string(data)
}

// ValidSeatLabel reports whether label is a well-formed seat within a
// theater of the given bounds: a row letter A..(A+rows-1) followed by a
// 1-based seat number up to seatsPerRow.
func ValidSeatLabel(label string, rows, seatsPerRow int) bool {
	if len(label) < 2 {
		return false
	}

	row := label[0]
	if row < 'A' || row >= byte('A'+rows) {
		return false
	}

	num, err := strconv.Atoi(label[1:])
	if err != nil {
		return false
	}
	return num >= 1 && num <= seatsPerRow
}

// SortSeatLabels orders labels by row letter then seat number so occupied
// sets are deterministic for clients.
func SortSeatLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		ri, ni := splitLabel(labels[i])
		rj, nj := splitLabel(labels[j])
		if ri != rj {
			return ri < rj
		}
		if ni != nj {
			return ni < nj
		}
		return labels[i] < labels[j]
	})
}

func splitLabel(label string) (string, int) {
	if len(label) < 2 {
		return label, 0
	}
	num, err := strconv.Atoi(label[1:])
	if err != nil {
		return label, 0
	}
	return label[:1], num
}
