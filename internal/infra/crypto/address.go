package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"flarecover/internal/domain"
)

const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Keccak256 hashes the concatenation of the given byte slices.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// IsHexAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsHexAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// ChecksumAddress canonicalizes an address to its EIP-55 checksummed form.
// The checksum is a pure function of the address bytes, so the operation is
// idempotent.
func ChecksumAddress(address string) (string, error) {
	if !IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}
	lower := strings.ToLower(address[2:])
	hash := Keccak256([]byte(lower))
	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' {
			nibble := hash[i/2]
			if i%2 == 0 {
				nibble >>= 4
			} else {
				nibble &= 0x0f
			}
			if nibble >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out), nil
}

func addressBytes(address string) ([]byte, error) {
	if !IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}
	return hex.DecodeString(address[2:])
}
