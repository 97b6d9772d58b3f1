package bitcodec

import (
	"encoding/binary"
	"math"
)

// PutUint16BE / Uint16BE, PutUint32BE / Uint32BE: the packtype, g, size, and
// crc fields are all big-endian, matching the wire layouts in spec.md §6.

func PutUint16BE(buf []byte, v uint16) { binary.BigEndian.PutUint16(buf, v) }
func Uint16BE(buf []byte) uint16       { return binary.BigEndian.Uint16(buf) }

func PutUint32BE(buf []byte, v uint32) { binary.BigEndian.PutUint32(buf, v) }
func Uint32BE(buf []byte) uint32       { return binary.BigEndian.Uint32(buf) }

// PutReversibleTime / ReversibleTime and PutReversibleFloat32 / ReversibleFloat32
// implement the fileinfo_header's "reversible" fields: time, latitude, and
// longitude are always little-endian on the wire regardless of host
// byte order. encoding/binary.LittleEndian already performs explicit byte
// shifts rather than a native memory copy, so these always produce the same
// wire bytes on any host - the byte-swap spec.md calls for on a big-endian
// host is implicit in using LittleEndian here instead of host-native.

func PutReversibleTime(buf []byte, t int64) {
	binary.LittleEndian.PutUint64(buf, uint64(t))
}

func ReversibleTime(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}

func PutReversibleFloat32(buf []byte, f float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
}

func ReversibleFloat32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}
