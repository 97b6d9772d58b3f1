// Package dhm implements the bespoke Diffie-Hellman-Merkle session and
// packet engine: a per-session freshly-generated prime, two framed packets
// with SHA-224 integrity hashes, and the two-sided shared-secret derivation.
// It is not an implementation of any standardized DH group or protocol; its
// formats are bit-exact contracts, not interoperable wire standards.
package dhm

import "github.com/kryptco/dhmrsa/bitcodec"

const (
	// PUBSIZE is the fixed width, in bytes, of the DHM public modulus and
	// every modular-exponentiation result (p, g's exponentiations A and B,
	// and the derived shared secret).
	PUBSIZE = 272
	// PRIVSIZE is the fixed width, in bytes, of a DHM private exponent.
	PRIVSIZE = 46
	// GUIDSIZE is the width of a session-correlation GUID.
	GUIDSIZE = 12
)

// AlicePacketType and BobPacketType are the two packet-type tags. Compared
// as plain big-endian-decoded integers against the wire value - not against
// ntohs(0xC1A5), which is the source's documented idiosyncrasy spec.md §9
// says not to reproduce.
const (
	AlicePacketType uint16 = 0xC1A5
	BobPacketType   uint16 = 0xC2A5
)

// Alice packet field offsets. Total length 588 bytes:
// 2 (packtype) + 28 (hash) + 12 (guid) + 2 (g) + 272 (p) + 272 (A).
const (
	aliceOffPackType = 0
	aliceOffHash     = 2
	aliceOffGUID     = 2 + bitcodec.SHASIZE
	aliceOffG        = aliceOffGUID + GUIDSIZE
	aliceOffP        = aliceOffG + 2
	aliceOffA        = aliceOffP + PUBSIZE
	alicePacketSize  = aliceOffA + PUBSIZE
)

// Bob packet field offsets. Total length 314 bytes:
// 2 (packtype) + 28 (hash) + 12 (guid) + 272 (B).
const (
	bobOffPackType = 0
	bobOffHash     = 2
	bobOffGUID     = 2 + bitcodec.SHASIZE
	bobOffB        = bobOffGUID + GUIDSIZE
	bobPacketSize  = bobOffB + PUBSIZE
)

// AlicePacket is the initiator's framed message: packtype, SHA-224 hash,
// session GUID, generator g, prime modulus p, and public value A. Field
// order and widths are fixed; there is no alignment padding.
type AlicePacket [alicePacketSize]byte

// BobPacket is the responder's framed message: packtype, SHA-224 hash,
// session GUID, and public value B.
type BobPacket [bobPacketSize]byte

func (p *AlicePacket) PackType() uint16     { return bitcodec.Uint16BE(p[aliceOffPackType:]) }
func (p *AlicePacket) setPackType(v uint16) { bitcodec.PutUint16BE(p[aliceOffPackType:], v) }
func (p *AlicePacket) Hash() []byte         { return p[aliceOffHash : aliceOffHash+bitcodec.SHASIZE] }
func (p *AlicePacket) GUID() []byte         { return p[aliceOffGUID : aliceOffGUID+GUIDSIZE] }
func (p *AlicePacket) G() uint16            { return bitcodec.Uint16BE(p[aliceOffG:]) }
func (p *AlicePacket) setG(v uint16)        { bitcodec.PutUint16BE(p[aliceOffG:], v) }
func (p *AlicePacket) P() []byte            { return p[aliceOffP : aliceOffP+PUBSIZE] }
func (p *AlicePacket) A() []byte            { return p[aliceOffA : aliceOffA+PUBSIZE] }

// hashedRange returns the byte range every DHM hash covers: everything after
// packtype+hash, i.e. from the guid field through the end of the packet.
func (p *AlicePacket) hashedRange() []byte { return p[aliceOffGUID:] }

func (p *BobPacket) PackType() uint16     { return bitcodec.Uint16BE(p[bobOffPackType:]) }
func (p *BobPacket) setPackType(v uint16) { bitcodec.PutUint16BE(p[bobOffPackType:], v) }
func (p *BobPacket) Hash() []byte         { return p[bobOffHash : bobOffHash+bitcodec.SHASIZE] }
func (p *BobPacket) GUID() []byte         { return p[bobOffGUID : bobOffGUID+GUIDSIZE] }
func (p *BobPacket) B() []byte            { return p[bobOffB : bobOffB+PUBSIZE] }

func (p *BobPacket) hashedRange() []byte { return p[bobOffGUID:] }
