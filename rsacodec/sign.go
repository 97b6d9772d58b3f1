package rsacodec

import (
	"bytes"
	"io"
	"math/big"

	"github.com/kryptco/dhmrsa/bitcodec"
	"github.com/kryptco/dhmrsa/entropy"
)

const (
	sigDigestOffset = prefixSize
	sigTimeOffset   = sigDigestOffset + 64
	sigLatOffset    = sigTimeOffset + 8
	sigLongOffset   = sigLatOffset + 4
)

// Sign computes the SHA-512 digest of r, embeds it with a timestamp and
// geolocation into a single block, and encrypts that block with the
// private exponent d (raw RSA - no padding scheme beyond the shared
// PKCS#1-style random prefix every block carries). The result is written
// to w.
func Sign(w io.Writer, r io.Reader, d, n *big.Int, now int64, geo Geolocation, src *entropy.Source) error {
	blockSize := (n.BitLen() + 7) / 8

	digest, err := sha512Of(r)
	if err != nil {
		return err
	}

	block := make([]byte, blockSize)
	if err := fillRandomBlock(src, block); err != nil {
		return err
	}
	copy(block[sigDigestOffset:], digest[:])
	bitcodec.PutReversibleTime(block[sigTimeOffset:], now)
	bitcodec.PutReversibleFloat32(block[sigLatOffset:], geo.Latitude)
	bitcodec.PutReversibleFloat32(block[sigLongOffset:], geo.Longitude)

	sig, err := encryptBlock(block, d, n, blockSize)
	if err != nil {
		return err
	}
	_, err = w.Write(sig)
	return err
}

// VerifyResult reports the outcome of Verify along with the timestamp and
// geolocation embedded in a passing signature.
type VerifyResult struct {
	OK        bool
	Time      int64
	Latitude  float32
	Longitude float32
}

// Verify decrypts the single-block signature read from sig with the public
// exponent e, recomputes the SHA-512 digest of r, and reports whether they
// match.
func Verify(sig io.Reader, r io.Reader, e, n *big.Int) (VerifyResult, error) {
	blockSize := (n.BitLen() + 7) / 8

	cipher := make([]byte, blockSize)
	if _, err := io.ReadFull(sig, cipher); err != nil {
		return VerifyResult{}, &Error{Kind: KindShortInput, Err: err}
	}

	c := entropy.Decode(cipher)
	m := entropy.ModExp(c, e, n)
	block, err := entropy.Encode(m, blockSize)
	if err != nil {
		return VerifyResult{}, err
	}

	embedded := block[sigDigestOffset : sigDigestOffset+64]
	digest, err := sha512Of(r)
	if err != nil {
		return VerifyResult{}, err
	}

	result := VerifyResult{
		OK:        bytes.Equal(embedded, digest[:]),
		Time:      bitcodec.ReversibleTime(block[sigTimeOffset:]),
		Latitude:  bitcodec.ReversibleFloat32(block[sigLatOffset:]),
		Longitude: bitcodec.ReversibleFloat32(block[sigLongOffset:]),
	}
	if !result.OK {
		return result, &Error{Kind: KindVerifyFailed}
	}
	return result, nil
}

func sha512Of(r io.Reader) ([64]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return [64]byte{}, err
	}
	return bitcodec.SHA512(data), nil
}
