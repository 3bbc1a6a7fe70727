package crypto

import (
	"errors"
	"strings"
	"testing"

	"flarecover/internal/domain"
)

func TestDeriveFlightIDDeterministic(t *testing.T) {
	holder := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	first, err := DeriveFlightID("AA100", "2026-09-01", holder)
	if err != nil {
		t.Fatalf("DeriveFlightID: %v", err)
	}
	second, err := DeriveFlightID("AA100", "2026-09-01", holder)
	if err != nil {
		t.Fatalf("DeriveFlightID: %v", err)
	}
	if first != second {
		t.Fatalf("identifiers differ: %s != %s", first, second)
	}
	if len(first) != 42 || !strings.HasPrefix(first, "0x") {
		t.Fatalf("unexpected identifier shape: %s", first)
	}
}

func TestDeriveFlightIDCaseInsensitiveHolder(t *testing.T) {
	lower, err := DeriveFlightID("AA100", "2026-09-01", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if err != nil {
		t.Fatalf("DeriveFlightID: %v", err)
	}
	mixed, err := DeriveFlightID("AA100", "2026-09-01", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	if err != nil {
		t.Fatalf("DeriveFlightID: %v", err)
	}
	if lower != mixed {
		t.Fatalf("holder casing changed the identifier: %s != %s", lower, mixed)
	}
}

func TestDeriveFlightIDDistinctInputs(t *testing.T) {
	holder := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	base, _ := DeriveFlightID("AA100", "2026-09-01", holder)
	otherDate, _ := DeriveFlightID("AA100", "2026-09-02", holder)
	otherFlight, _ := DeriveFlightID("AA101", "2026-09-01", holder)
	if base == otherDate || base == otherFlight {
		t.Fatal("distinct inputs must yield distinct identifiers")
	}
}

func TestDeriveFlightIDRejectsBadHolder(t *testing.T) {
	if _, err := DeriveFlightID("AA100", "2026-09-01", "not-an-address"); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("err = %v, want ErrInvalidAddress", err)
	}
}
