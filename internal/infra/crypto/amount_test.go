package crypto

import (
	"errors"
	"math"
	"testing"

	"flarecover/internal/domain"
)

func TestToMinorUnitsExact(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "0"},
		{"whole", 25, "25000000000000000000"},
		{"half", 25.5, "25500000000000000000"},
		{"small fraction", 0.1, "100000000000000000"},
		{"non-dyadic tenths", 25.7, "25700000000000000000"},
		{"non-dyadic premium", 10.3, "10300000000000000000"},
		{"one minor unit", 1e-18, "1"},
		{"large", 1_000_000, "1000000000000000000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			minor, err := ToMinorUnits(tc.amount)
			if err != nil {
				t.Fatalf("ToMinorUnits(%v): %v", tc.amount, err)
			}
			if got := MinorUnitsString(minor); got != tc.want {
				t.Fatalf("ToMinorUnits(%v) = %s, want %s", tc.amount, got, tc.want)
			}
		})
	}
}

func TestToMinorUnitsTruncatesTowardZero(t *testing.T) {
	// 1/3 has no finite decimal rendering; the scaled value truncates toward
	// zero and does so identically on every call.
	minor, err := ToMinorUnits(1.0 / 3.0)
	if err != nil {
		t.Fatalf("ToMinorUnits: %v", err)
	}
	again, err := ToMinorUnits(1.0 / 3.0)
	if err != nil {
		t.Fatalf("ToMinorUnits: %v", err)
	}
	if minor.Cmp(again) != 0 {
		t.Fatal("conversion is not deterministic")
	}
	if minor.IsZero() {
		t.Fatal("expected nonzero minor units")
	}
}

func TestToMinorUnitsRejectsInvalid(t *testing.T) {
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.5} {
		if _, err := ToMinorUnits(amount); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("ToMinorUnits(%v) err = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestParseMinorUnits(t *testing.T) {
	minor, err := ParseMinorUnits("25500000000000000000")
	if err != nil {
		t.Fatalf("ParseMinorUnits: %v", err)
	}
	if got := MinorUnitsString(minor); got != "25500000000000000000" {
		t.Fatalf("round trip = %s", got)
	}

	for _, bad := range []string{"", "abc", "-1", "1.5"} {
		if _, err := ParseMinorUnits(bad); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("ParseMinorUnits(%q) err = %v, want ErrInvalidAmount", bad, err)
		}
	}
}

func TestMinorUnitsStringNil(t *testing.T) {
	if got := MinorUnitsString(nil); got != "0" {
		t.Fatalf("MinorUnitsString(nil) = %s, want 0", got)
	}
}
