package estimate

import (
	"errors"
	"testing"
)

func TestDefaultTeamSizePolicy(t *testing.T) {
	p := DefaultTeamSizePolicy()
	if p.TargetMonths != 3 {
		t.Errorf("TargetMonths = %g, want 3", p.TargetMonths)
	}
	if p.SizeBound != 0.40 {
		t.Errorf("SizeBound = %g, want 0.40", p.SizeBound)
	}
	if p.HoursPerDay != 6 {
		t.Errorf("HoursPerDay = %g, want 6", p.HoursPerDay)
	}
}

func TestRecommendTeamSize(t *testing.T) {
	// base effort = 1000 * 10 = 10000 hours; 6 h/day * 21 days = 126 h/month.
	// ceil(10000 / (126 * 3)) = 27.
	rec, err := RecommendTeamSize(1000, 10, DefaultTeamSizePolicy())
	if err != nil {
		t.Fatalf("RecommendTeamSize returned error: %v", err)
	}

	if rec.Recommended != 27 {
		t.Errorf("Recommended = %d, want 27", rec.Recommended)
	}
	if rec.Min != 16 {
		t.Errorf("Min = %d, want 16", rec.Min)
	}
	if rec.Max != 38 {
		t.Errorf("Max = %d, want 38", rec.Max)
	}
}

func TestRecommendTeamSizeInverseRelation(t *testing.T) {
	rec, err := RecommendTeamSize(500, 12, DefaultTeamSizePolicy())
	if err != nil {
		t.Fatalf("RecommendTeamSize returned error: %v", err)
	}

	// The biggest team must imply the shortest duration and vice versa.
	if rec.MinDurationMonths >= rec.RecommendedDurationMonths {
		t.Errorf("MinDurationMonths %g >= RecommendedDurationMonths %g",
			rec.MinDurationMonths, rec.RecommendedDurationMonths)
	}
	if rec.RecommendedDurationMonths >= rec.MaxDurationMonths {
		t.Errorf("RecommendedDurationMonths %g >= MaxDurationMonths %g",
			rec.RecommendedDurationMonths, rec.MaxDurationMonths)
	}

	// MinDurationMonths pairs with Max size, MaxDurationMonths with Min size.
	base := 500.0 * 12
	monthly := 6.0 * 21
	wantMin := base / (monthly * float64(rec.Max))
	wantMax := base / (monthly * float64(rec.Min))
	if diff := rec.MinDurationMonths - wantMin; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("MinDurationMonths = %g, want %g", rec.MinDurationMonths, wantMin)
	}
	if diff := rec.MaxDurationMonths - wantMax; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("MaxDurationMonths = %g, want %g", rec.MaxDurationMonths, wantMax)
	}
}

func TestRecommendTeamSizeFloorsAtOne(t *testing.T) {
	// A tiny system still needs one person.
	rec, err := RecommendTeamSize(5, 10, DefaultTeamSizePolicy())
	if err != nil {
		t.Fatalf("RecommendTeamSize returned error: %v", err)
	}
	if rec.Recommended != 1 {
		t.Errorf("Recommended = %d, want 1", rec.Recommended)
	}
	if rec.Min != 1 {
		t.Errorf("Min = %d, want 1", rec.Min)
	}
	if rec.Max < 1 {
		t.Errorf("Max = %d, want >= 1", rec.Max)
	}
}

func TestRecommendTeamSizeErrors(t *testing.T) {
	tests := []struct {
		name         string
		pfa          float64
		productivity float64
		policy       TeamSizePolicy
	}{
		{"zero pfa", 0, 10, DefaultTeamSizePolicy()},
		{"negative pfa", -10, 10, DefaultTeamSizePolicy()},
		{"zero productivity", 100, 0, DefaultTeamSizePolicy()},
		{"zero hours per day", 100, 10, TeamSizePolicy{TargetMonths: 3, SizeBound: 0.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RecommendTeamSize(tt.pfa, tt.productivity, tt.policy); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
