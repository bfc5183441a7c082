package fpa

import (
	"errors"
	"testing"
)

func mustClassifyAll(t *testing.T, components []Component) []Classified {
	t.Helper()
	classified, err := ClassifyAll(components)
	if err != nil {
		t.Fatalf("ClassifyAll returned error: %v", err)
	}
	return classified
}

func TestUnadjustedEmpty(t *testing.T) {
	if got := Unadjusted(nil); got != 0 {
		t.Errorf("Unadjusted(nil) = %d, want 0", got)
	}
}

func TestUnadjustedSum(t *testing.T) {
	classified := mustClassifyAll(t, []Component{
		{Kind: InternalFile, RecordTypes: 2, DataElements: 20},  // average, 10
		{Kind: ExternalInput, FileTypesReferenced: 2, DataElements: 12}, // average, 4
	})

	if got := Unadjusted(classified); got != 14 {
		t.Errorf("Unadjusted = %d, want 14", got)
	}
}

func TestUnadjustedAdditivity(t *testing.T) {
	components := []Component{
		{Kind: InternalFile, RecordTypes: 1, DataElements: 10},
		{Kind: ExternalFile, RecordTypes: 6, DataElements: 60},
		{Kind: ExternalInput, FileTypesReferenced: 0, DataElements: 3},
		{Kind: ExternalOutput, FileTypesReferenced: 4, DataElements: 25},
		{Kind: ExternalQuery, FileTypesReferenced: 2, DataElements: 8},
	}
	classified := mustClassifyAll(t, components)

	whole := Unadjusted(classified)
	for split := 0; split <= len(classified); split++ {
		left := Unadjusted(classified[:split])
		right := Unadjusted(classified[split:])
		if left+right != whole {
			t.Errorf("partition at %d: %d + %d != %d", split, left, right, whole)
		}
	}
}

func TestDegreeOfInfluence(t *testing.T) {
	tests := []struct {
		name    string
		gsc     GSCVector
		want    int
		wantErr bool
	}{
		{"empty vector", nil, 0, false},
		{"all zeros", make(GSCVector, 14), 0, false},
		{"all fives", GSCVector{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}, 70, false},
		{"mixed", GSCVector{3, 1, 4, 1, 5, 0, 2, 0, 3, 2, 1, 0, 4, 2}, 28, false},
		{"too short", GSCVector{1, 2, 3}, 0, true},
		{"too long", make(GSCVector, 15), 0, true},
		{"value too high", GSCVector{6, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, true},
		{"negative value", GSCVector{0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DegreeOfInfluence(tt.gsc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidGSC) {
					t.Errorf("error %v is not ErrInvalidGSC", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DegreeOfInfluence = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdjustmentFactorEmptyVectorPolicy(t *testing.T) {
	// An absent assessment means no adjustment: exactly 1.0, not the 0.65
	// the formula would yield for NI=0.
	fa, err := AdjustmentFactor(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fa != 1.0 {
		t.Errorf("AdjustmentFactor(empty) = %g, want exactly 1.0", fa)
	}
}

func TestAdjustmentFactorFormula(t *testing.T) {
	tests := []struct {
		name string
		gsc  GSCVector
		want float64
	}{
		{"all zeros", make(GSCVector, 14), 0.65},
		{"all fives", GSCVector{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}, 1.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa, err := AdjustmentFactor(tt.gsc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := fa - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("AdjustmentFactor = %g, want %g", fa, tt.want)
			}
		})
	}
}

func TestAdjustmentFactorInvalidVector(t *testing.T) {
	if _, err := AdjustmentFactor(GSCVector{1, 2}); !errors.Is(err, ErrInvalidGSC) {
		t.Errorf("expected ErrInvalidGSC, got %v", err)
	}
}

func TestAdjusted(t *testing.T) {
	if got := Adjusted(14, 1.0); got != 14.0 {
		t.Errorf("Adjusted(14, 1.0) = %g, want 14", got)
	}
	if got := Adjusted(100, 0.65); got != 65.0 {
		t.Errorf("Adjusted(100, 0.65) = %g, want 65", got)
	}
}
