package keyfile

import (
	"math/big"

	"github.com/kryptco/dhmrsa/rsakeygen"
)

// EncodePrivate serializes every field of key as the ordered TLV record
// stream spec.md mandates: modulus, pubexp, privexp, p, q, dp, dq, qinv.
func EncodePrivate(key *rsakeygen.Key) []byte {
	return encodeFields(fields{
		Modulus: key.N,
		PubExp:  key.E,
		PrivExp: key.D,
		P:       key.P,
		Q:       key.Q,
		Dp:      key.Dp,
		Dq:      key.Dq,
		Qinv:    key.Qinv,
	}, privateOrder)
}

// EncodePublic serializes only the modulus and public exponent records.
func EncodePublic(key *rsakeygen.Key) []byte {
	return encodeFields(fields{Modulus: key.N, PubExp: key.E}, publicOrder)
}

// DecodePrivate parses a full private-keyfile TLV stream. All eight
// records must be present.
func DecodePrivate(buf []byte) (*rsakeygen.Key, error) {
	f, err := decodeFields(buf)
	if err != nil {
		return nil, err
	}
	if f.Modulus == nil || f.PubExp == nil || f.PrivExp == nil || f.P == nil ||
		f.Q == nil || f.Dp == nil || f.Dq == nil || f.Qinv == nil {
		return nil, &Error{Kind: KindMissingField}
	}
	return &rsakeygen.Key{
		Bits: f.Modulus.BitLen(),
		N:    f.Modulus,
		E:    f.PubExp,
		D:    f.PrivExp,
		P:    f.P,
		Q:    f.Q,
		Dp:   f.Dp,
		Dq:   f.Dq,
		Qinv: f.Qinv,
	}, nil
}

// PublicKey is the modulus/exponent pair a public keyfile carries - the
// decrypt and key-generation paths need the full private Key, but
// encrypt/verify only ever need this pair.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// DecodePublic parses a public-keyfile TLV stream. Both records must be
// present.
func DecodePublic(buf []byte) (*PublicKey, error) {
	f, err := decodeFields(buf)
	if err != nil {
		return nil, err
	}
	if f.Modulus == nil || f.PubExp == nil {
		return nil, &Error{Kind: KindMissingField}
	}
	return &PublicKey{N: f.Modulus, E: f.PubExp}, nil
}
