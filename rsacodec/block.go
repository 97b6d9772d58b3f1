package rsacodec

import (
	"math/big"

	"github.com/kryptco/dhmrsa/bitcodec"
	"github.com/kryptco/dhmrsa/entropy"
)

// prefixSize is the width of the zero byte plus randomized PKCS#1-style
// padding that opens every block, before payload (subsequent blocks) or the
// fileinfo header (first block only) begins.
//
// The wire layouts this package is grounded on (first-ciphertext-block and
// signature-file layouts) both spell out the prefix explicitly as one zero
// byte followed by seven random bytes, offset 0..7, with content starting at
// offset 8. That is used here rather than the "PADDING = 12 bytes" figure
// quoted elsewhere, which does not reconcile with those offsets; see
// DESIGN.md.
const prefixSize = 8

// fileinfoHeaderSize is the fixed width of the first block's fileinfo
// header: flags(1) + size(4) + size_xor(4) + crc(4) + crc_xor(4) + time(8)
// + latitude(4) + longitude(4).
const fileinfoHeaderSize = 33

const (
	fhFlags   = 0
	fhSize    = 1
	fhSizeXor = 5
	fhCrc     = 9
	fhCrcXor  = 13
	fhTime    = 17
	fhLat     = 25
	fhLong    = 29
)

// flagSigned marks a ciphertext's fileinfo header flags byte as carrying a
// signed payload rather than plain encrypted content. Nothing in this
// package sets it; it is reserved for a combined sign-and-encrypt mode the
// CLI does not currently expose.
const flagSigned = 0x80

// fileinfoHeader is the self-describing record embedded at offset
// prefixSize of the first ciphertext block.
type fileinfoHeader struct {
	Flags      byte
	Size       uint32
	Latitude   float32
	Longitude  float32
	Time       int64
	crc        uint32
}

func putFileinfoHeader(buf []byte, h fileinfoHeader, crc uint32) {
	buf[fhFlags] = h.Flags
	bitcodec.PutUint32BE(buf[fhSize:], h.Size)
	bitcodec.PutUint32BE(buf[fhSizeXor:], h.Size^0xFFFFFFFF)
	bitcodec.PutUint32BE(buf[fhCrc:], crc)
	bitcodec.PutUint32BE(buf[fhCrcXor:], crc^0xFFFFFFFF)
	bitcodec.PutReversibleTime(buf[fhTime:], h.Time)
	bitcodec.PutReversibleFloat32(buf[fhLat:], h.Latitude)
	bitcodec.PutReversibleFloat32(buf[fhLong:], h.Longitude)
}

// parseFileinfoHeader reads the header fields and reports whether the
// size/crc self-consistency check (each value XORed against its paired
// complement field) passes.
func parseFileinfoHeader(buf []byte) (h fileinfoHeader, ok bool) {
	h.Flags = buf[fhFlags]
	size := bitcodec.Uint32BE(buf[fhSize:])
	sizeXor := bitcodec.Uint32BE(buf[fhSizeXor:])
	crc := bitcodec.Uint32BE(buf[fhCrc:])
	crcXor := bitcodec.Uint32BE(buf[fhCrcXor:])
	h.Size = size
	h.crc = crc
	h.Time = bitcodec.ReversibleTime(buf[fhTime:])
	h.Latitude = bitcodec.ReversibleFloat32(buf[fhLat:])
	h.Longitude = bitcodec.ReversibleFloat32(buf[fhLong:])
	ok = size == sizeXor^0xFFFFFFFF && crc == crcXor^0xFFFFFFFF
	return h, ok
}

// firstBlockCapacity and subsequentBlockCapacity return how many payload
// bytes fit in a block of the given size.
func firstBlockCapacity(blockSize int) int {
	return blockSize - prefixSize - fileinfoHeaderSize
}

func subsequentBlockCapacity(blockSize int) int {
	return blockSize - prefixSize
}

// fillRandomBlock fills buf with fresh random bytes and zeroes the leading
// byte, giving every block the PKCS#1-style "m < n" guarantee the spec
// calls for.
func fillRandomBlock(src *entropy.Source, buf []byte) error {
	if err := src.Read(buf); err != nil {
		return err
	}
	buf[0] = 0
	return nil
}

// encryptBlock computes c = m^e mod n and right-justifies it to blockSize.
func encryptBlock(plain []byte, e, n *big.Int, blockSize int) ([]byte, error) {
	m := entropy.Decode(plain)
	c := entropy.ModExp(m, e, n)
	return entropy.Encode(c, blockSize)
}
