// Package bitcodec provides the small, bit-exact serialization helpers the
// DHM packet engine and RSA block codec share: CRC-32 checksumming, the
// SHA-224/SHA-512 digesters, and fixed-width big-endian/little-endian field
// packing. Nothing here allocates session or key state; it only converts
// between Go values and the wire's byte layout.
package bitcodec

import "hash/crc32"

// zlibTable is the classic zlib/PNG CRC-32 polynomial (0xEDB88320), which is
// exactly hash/crc32's IEEE table - no bespoke polynomial or table is needed.
var zlibTable = crc32.MakeTable(crc32.IEEE)

// CRC32 computes the standard zlib/PNG CRC-32 over data: initial register
// 0xFFFFFFFF, final XOR 0xFFFFFFFF (both already folded into
// hash/crc32.Checksum's IEEE behavior).
func CRC32(data []byte) uint32 {
	return crc32.Checksum(data, zlibTable)
}
