package crypto

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"flarecover/internal/domain"
)

// Type strings follow the EIP-712 encodeType rules; field order is part of
// the signed contract and must match the verifying contract exactly.
const (
	eip712DomainType = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
	quoteType        = "Quote(address userAddress,string flightId,uint256 premiumAmount,uint256 deadline)"
)

// DomainSeparator hashes the EIP-712 domain record.
func DomainSeparator(d domain.SigningDomain) ([]byte, error) {
	contract := d.VerifyingContract
	if contract == "" {
		contract = ZeroAddress
	}
	contractBytes, err := addressBytes(contract)
	if err != nil {
		return nil, err
	}
	return Keccak256(
		Keccak256([]byte(eip712DomainType)),
		Keccak256([]byte(d.Name)),
		Keccak256([]byte(d.Version)),
		encodeUint64(d.ChainID),
		leftPadAddress(contractBytes),
	), nil
}

// QuoteDigest computes the EIP-712 signing digest binding
// (holder, flightID, premium, deadline) to the domain.
func QuoteDigest(d domain.SigningDomain, holder, flightID string, premium *uint256.Int, deadline int64) ([]byte, error) {
	separator, err := DomainSeparator(d)
	if err != nil {
		return nil, err
	}
	structHash, err := hashQuoteStruct(holder, flightID, premium, deadline)
	if err != nil {
		return nil, err
	}
	return Keccak256([]byte{0x19, 0x01}, separator, structHash), nil
}

func hashQuoteStruct(holder, flightID string, premium *uint256.Int, deadline int64) ([]byte, error) {
	holderBytes, err := addressBytes(holder)
	if err != nil {
		return nil, err
	}
	return Keccak256(
		Keccak256([]byte(quoteType)),
		leftPadAddress(holderBytes),
		Keccak256([]byte(flightID)),
		encodeUint256(premium),
		encodeUint64(uint64(deadline)),
	), nil
}

func encodeUint64(v uint64) []byte {
	out := make([]byte, 32)
	binary.BigEndian.PutUint64(out[24:], v)
	return out
}

func encodeUint256(v *uint256.Int) []byte {
	if v == nil {
		v = new(uint256.Int)
	}
	out := v.Bytes32()
	return out[:]
}

func leftPadAddress(addr []byte) []byte {
	out := make([]byte, 32)
	copy(out[32-len(addr):], addr)
	return out
}
