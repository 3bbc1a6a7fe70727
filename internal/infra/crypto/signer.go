package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/holiman/uint256"

	"flarecover/internal/domain"
)

// Signer binds quotes to an EIP-712 domain with a secp256k1 key. The key is
// loaded once at construction and never copied out; Sign and SignerAddress
// are safe for concurrent use.
type Signer struct {
	key     *secp256k1.PrivateKey
	address string
	domain  domain.SigningDomain
}

// NewSigner parses a hex-encoded private key (0x prefix optional) and fixes
// the signing domain for the life of the process.
func NewSigner(privateKeyHex string, signingDomain domain.SigningDomain) (*Signer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("%w: expected 32 hex-encoded bytes", domain.ErrInvalidKey)
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar outside curve order", domain.ErrInvalidKey)
	}
	key := secp256k1.NewPrivateKey(&scalar)
	address, err := pubkeyAddress(key.PubKey())
	if err != nil {
		return nil, err
	}
	if signingDomain.VerifyingContract == "" {
		signingDomain.VerifyingContract = ZeroAddress
	}
	return &Signer{key: key, address: address, domain: signingDomain}, nil
}

// Domain returns the immutable signing domain.
func (s *Signer) Domain() domain.SigningDomain {
	return s.domain
}

// SignerAddress returns the checksummed address derived from the key.
func (s *Signer) SignerAddress() string {
	return s.address
}

// Sign produces the 65-byte recoverable signature over the quote digest,
// hex-encoded with 0x prefix in r || s || v order with v in {27, 28}.
// The holder is canonicalized first; a malformed holder never reaches the
// curve operation.
func (s *Signer) Sign(holder, flightID string, premiumMinorUnits *uint256.Int, deadline int64) (string, error) {
	checksummed, err := ChecksumAddress(holder)
	if err != nil {
		return "", err
	}
	// A negative deadline would wrap into a huge uint256 under the encoding.
	if deadline < 0 {
		return "", fmt.Errorf("%w: deadline must not be negative", domain.ErrInvalidInput)
	}
	digest, err := QuoteDigest(s.domain, checksummed, flightID, premiumMinorUnits, deadline)
	if err != nil {
		return "", err
	}
	compact := secpecdsa.SignCompact(s.key, digest, false)
	if len(compact) != 65 {
		return "", fmt.Errorf("%w: unexpected compact signature length %d", domain.ErrSigningFailure, len(compact))
	}
	// SignCompact places the recovery byte first; the verifying contract
	// expects it last.
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return "0x" + hex.EncodeToString(sig), nil
}

// RecoverSigner recovers the checksummed address that signed digest. Callers
// verify a quote by checking the result against the known signer address.
func RecoverSigner(digest []byte, signature string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(raw) != 65 {
		return "", fmt.Errorf("%w: malformed signature", domain.ErrSigningFailure)
	}
	compact := make([]byte, 65)
	compact[0] = raw[64]
	copy(compact[1:], raw[:64])
	pub, _, err := secpecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigningFailure, err)
	}
	return pubkeyAddress(pub)
}

func pubkeyAddress(pub *secp256k1.PublicKey) (string, error) {
	uncompressed := pub.SerializeUncompressed()
	hash := Keccak256(uncompressed[1:])
	return ChecksumAddress("0x" + hex.EncodeToString(hash[12:]))
}
