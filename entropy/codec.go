package entropy

import "math/big"

// Encode serializes n as a big-endian, leading-zero-padded buffer exactly
// width bytes wide. math/big strips leading zero bytes on export, so every
// conversion in this repository must go through this right-justify step
// rather than calling n.Bytes() directly.
func Encode(n *big.Int, width int) ([]byte, error) {
	raw := n.Bytes()
	if len(raw) > width {
		return nil, &Error{Kind: KindValue}
	}
	buf := make([]byte, width)
	copy(buf[width-len(raw):], raw)
	return buf, nil
}

// MustEncode is Encode for call sites that have already bounded n's bit
// length and treat overflow as a programming error.
func MustEncode(n *big.Int, width int) []byte {
	buf, err := Encode(n, width)
	if err != nil {
		log.Error(err.Error())
		panic(err)
	}
	return buf
}

// Decode parses a big-endian buffer (as produced by Encode) into a big.Int.
func Decode(buf []byte) *big.Int {
	return new(big.Int).SetBytes(buf)
}
