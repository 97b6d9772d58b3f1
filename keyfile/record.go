// Package keyfile encodes and decodes the TLV record stream RSA keys are
// persisted as, with an optional PEM text wrapper layered on top of the
// same binary form.
package keyfile

import (
	"math/big"

	"github.com/kryptco/dhmrsa/bitcodec"
	"github.com/kryptco/dhmrsa/entropy"
)

// Tag identifies which key field a record carries.
type Tag byte

const (
	TagModulus Tag = 1 + iota
	TagPubExp
	TagPrivExp
	TagP
	TagQ
	TagDp
	TagDq
	TagQinv
)

// privateOrder and publicOrder are the fixed record orders spec.md mandates
// for private and public keyfiles respectively.
var privateOrder = []Tag{TagModulus, TagPubExp, TagPrivExp, TagP, TagQ, TagDp, TagDq, TagQinv}
var publicOrder = []Tag{TagModulus, TagPubExp}

const recordHeaderSize = 5 // 1-byte tag + 4-byte big-endian bit width

// encodeRecord serializes one TLV record: tag, bit width, then the value
// right-justified to ceil(bitWidth/8) bytes.
func encodeRecord(tag Tag, v *big.Int) []byte {
	bitWidth := v.BitLen()
	if bitWidth == 0 {
		bitWidth = 1
	}
	byteWidth := (bitWidth + 7) / 8
	buf := make([]byte, recordHeaderSize+byteWidth)
	buf[0] = byte(tag)
	bitcodec.PutUint32BE(buf[1:5], uint32(bitWidth))
	copy(buf[5:], entropy.MustEncode(v, byteWidth))
	return buf
}

// decodeRecord parses one TLV record from the head of buf, returning the
// tag, value, and the number of bytes consumed.
func decodeRecord(buf []byte) (Tag, *big.Int, int, error) {
	if len(buf) < recordHeaderSize {
		return 0, nil, 0, &Error{Kind: KindShortRecord}
	}
	tag := Tag(buf[0])
	bitWidth := bitcodec.Uint32BE(buf[1:5])
	byteWidth := int((bitWidth + 7) / 8)
	if len(buf) < recordHeaderSize+byteWidth {
		return 0, nil, 0, &Error{Kind: KindShortRecord}
	}
	v := entropy.Decode(buf[recordHeaderSize : recordHeaderSize+byteWidth])
	return tag, v, recordHeaderSize + byteWidth, nil
}

// fields holds every tagged value a keyfile (private or public) can carry.
// Zero-value *big.Int fields mean "record absent from this file".
type fields struct {
	Modulus *big.Int
	PubExp  *big.Int
	PrivExp *big.Int
	P       *big.Int
	Q       *big.Int
	Dp      *big.Int
	Dq      *big.Int
	Qinv    *big.Int
}

func (f fields) get(tag Tag) *big.Int {
	switch tag {
	case TagModulus:
		return f.Modulus
	case TagPubExp:
		return f.PubExp
	case TagPrivExp:
		return f.PrivExp
	case TagP:
		return f.P
	case TagQ:
		return f.Q
	case TagDp:
		return f.Dp
	case TagDq:
		return f.Dq
	case TagQinv:
		return f.Qinv
	}
	return nil
}

func (f *fields) set(tag Tag, v *big.Int) error {
	switch tag {
	case TagModulus:
		f.Modulus = v
	case TagPubExp:
		f.PubExp = v
	case TagPrivExp:
		f.PrivExp = v
	case TagP:
		f.P = v
	case TagQ:
		f.Q = v
	case TagDp:
		f.Dp = v
	case TagDq:
		f.Dq = v
	case TagQinv:
		f.Qinv = v
	default:
		return &Error{Kind: KindUnknownTag}
	}
	return nil
}

func encodeFields(f fields, order []Tag) []byte {
	var out []byte
	for _, tag := range order {
		v := f.get(tag)
		if v == nil {
			continue
		}
		out = append(out, encodeRecord(tag, v)...)
	}
	return out
}

func decodeFields(buf []byte) (fields, error) {
	var f fields
	for len(buf) > 0 {
		tag, v, n, err := decodeRecord(buf)
		if err != nil {
			return fields{}, err
		}
		if err := f.set(tag, v); err != nil {
			return fields{}, err
		}
		buf = buf[n:]
	}
	return f, nil
}
