package fpa

import "fmt"

const (
	// GSCCount is the number of general system characteristics.
	GSCCount = 14
	// gscMax is the highest degree of influence a single characteristic may carry.
	gscMax = 5

	// vafBase and vafStep define the value adjustment factor formula
	// FA = vafBase + vafStep * NI.
	vafBase = 0.65
	vafStep = 0.01
)

// GSCVector holds the 14 general system characteristic ratings, each 0-5.
// An empty (or nil) vector is a valid state meaning no adjustment was
// requested.
type GSCVector []int

// Empty reports whether no adjustment was requested.
func (g GSCVector) Empty() bool { return len(g) == 0 }

// validate checks length and per-value range on a non-empty vector.
func (g GSCVector) validate() error {
	if len(g) != GSCCount {
		return &GSCError{Reason: fmt.Sprintf("expected %d characteristics, got %d", GSCCount, len(g))}
	}
	for i, v := range g {
		if v < 0 || v > gscMax {
			return &GSCError{
				Reason: fmt.Sprintf("characteristic %d has value %d, want 0-%d", i+1, v, gscMax),
				Index:  i,
				Value:  v,
			}
		}
	}
	return nil
}

// Unadjusted sums the function point weights of classified components into
// the unadjusted count (PFNA). An empty list is a valid zero-point system.
func Unadjusted(components []Classified) int {
	total := 0
	for _, c := range components {
		total += c.Points
	}
	return total
}

// DegreeOfInfluence sums the GSC ratings (NI). An empty vector sums to 0.
func DegreeOfInfluence(gsc GSCVector) (int, error) {
	if gsc.Empty() {
		return 0, nil
	}
	if err := gsc.validate(); err != nil {
		return 0, err
	}
	total := 0
	for _, v := range gsc {
		total += v
	}
	return total, nil
}

// AdjustmentFactor computes the value adjustment factor (FA) for a GSC
// vector.
//
// An empty vector means the assessment was skipped entirely and the count is
// taken as-is: FA is exactly 1.0, not the 0.65 the formula would give for
// NI=0. A present all-zeros vector is a deliberate "no influence" rating and
// goes through the formula.
func AdjustmentFactor(gsc GSCVector) (float64, error) {
	if gsc.Empty() {
		return 1.0, nil
	}
	ni, err := DegreeOfInfluence(gsc)
	if err != nil {
		return 0, err
	}
	return vafBase + vafStep*float64(ni), nil
}

// Adjusted applies the value adjustment factor to the unadjusted count,
// producing the adjusted function point count (PFA).
func Adjusted(pfna int, fa float64) float64 {
	return float64(pfna) * fa
}
