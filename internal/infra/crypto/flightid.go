package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"flarecover/internal/domain"
)

// DeriveFlightID derives the deterministic identifier for a
// (flight, date, holder) tuple. The same triple always yields the same
// identifier across processes, so a later verification call can recompute it
// without shared storage.
//
// The digest is truncated to 20 bytes: downstream consumers expect an
// address-width value.
func DeriveFlightID(flightNumber, flightDate, holderAddress string) (string, error) {
	if !IsHexAddress(holderAddress) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, holderAddress)
	}
	data := flightNumber + ":" + flightDate + ":" + strings.ToLower(holderAddress)
	digest := sha256.Sum256([]byte(data))
	return "0x" + hex.EncodeToString(digest[:20]), nil
}
