package service

import (
	"regexp"
	"strconv"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// MaxParcelRangeSpan bounds the number of parcels a single descriptor may
// name. Wider ranges are treated as unresolvable.
const MaxParcelRangeSpan = 10000

var (
	parcelRangePattern  = regexp.MustCompile(`(?i)(\d+)\s+to\s+(\d+)`)
	parcelSinglePattern = regexp.MustCompile(`\d+`)
)

// ParseParcelRange turns a parcel descriptor cell ("3 to 7", "5", 12) into
// an ascending list of parcel indices. It never fails: a descriptor without
// a usable number yields []int{model.UnresolvedParcel}. A reversed range
// ("7 to 3") is read with its bounds swapped.
func ParseParcelRange(cell any) []int {
	text := cellText(cell)
	if text == "" {
		return []int{model.UnresolvedParcel}
	}

	if m := parcelRangePattern.FindStringSubmatch(text); m != nil {
		start, errStart := strconv.Atoi(m[1])
		end, errEnd := strconv.Atoi(m[2])
		if errStart != nil || errEnd != nil {
			return []int{model.UnresolvedParcel}
		}
		if start > end {
			start, end = end, start
		}
		if end-start >= MaxParcelRangeSpan {
			return []int{model.UnresolvedParcel}
		}
		out := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
		return out
	}

	if m := parcelSinglePattern.FindString(text); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			return []int{model.UnresolvedParcel}
		}
		return []int{n}
	}

	return []int{model.UnresolvedParcel}
}

// countResolved returns how many indices are not model.UnresolvedParcel.
func countResolved(indices []int) int {
	n := 0
	for _, i := range indices {
		if i != model.UnresolvedParcel {
			n++
		}
	}
	return n
}
