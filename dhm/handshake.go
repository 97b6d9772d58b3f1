package dhm

import (
	"math/big"

	"github.com/kryptco/dhmrsa/bitcodec"
	"github.com/kryptco/dhmrsa/entropy"
)

// primalityRounds is the Miller-Rabin round count spec.md mandates
// throughout the DHM engine.
const primalityRounds = 50

// GetAlice runs the initiator side of the handshake: it samples a fresh
// prime p, a generator g, a private exponent a, computes A = g^a mod p, and
// returns the framed packet plus the private exponent the caller must hold
// onto for AliceDeriveSecret. The packet's hash field is filled in before
// return.
func GetAlice(s *Session) (*AlicePacket, [PRIVSIZE]byte, error) {
	var pkt AlicePacket
	var a [PRIVSIZE]byte

	pkt.setPackType(AlicePacketType)
	copy(pkt.GUID(), s.guid[:])

	p, err := samplePrime(s.source, PUBSIZE)
	if err != nil {
		return nil, a, err
	}
	pBuf, err := entropy.Encode(p, PUBSIZE)
	if err != nil {
		return nil, a, toDHMError(err)
	}
	copy(pkt.P(), pBuf)

	var gWord [4]byte
	if err := s.source.Read(gWord[:]); err != nil {
		return nil, a, toDHMError(err)
	}
	g := uint16(3)
	if gWord[3]&0x01 != 0 {
		g = 5
	}
	pkt.setG(g)

	if err := s.source.Read(a[:]); err != nil {
		return nil, a, toDHMError(err)
	}
	aInt := entropy.Decode(a[:])

	A := entropy.ModExp(big.NewInt(int64(g)), aInt, p)
	aBuf, err := entropy.Encode(A, PUBSIZE)
	if err != nil {
		return nil, a, toDHMError(err)
	}
	copy(pkt.A(), aBuf)

	stampHash(pkt.hashedRange(), pkt.Hash())

	log.Debugf("alice packet built for session %x, g=%d", s.guid, g)
	return &pkt, a, nil
}

// GetBob runs the responder side: validates the received Alice packet
// (packtype, then integrity hash), samples a private exponent b, computes
// B = g^b mod p and the shared secret s = A^b mod p (written into the
// session's secret slot), and returns the framed Bob packet. The session's
// GUID is overwritten with the initiator's, per spec.md's Bob-packet
// generation steps.
func GetBob(s *Session, alice *AlicePacket) (*BobPacket, error) {
	if err := validateAlice(alice); err != nil {
		return nil, err
	}

	var pkt BobPacket
	pkt.setPackType(BobPacketType)
	copy(s.guid[:], alice.GUID())
	copy(pkt.GUID(), alice.GUID())

	var b [PRIVSIZE]byte
	if err := s.source.Read(b[:]); err != nil {
		return nil, toDHMError(err)
	}
	bInt := entropy.Decode(b[:])

	p := entropy.Decode(alice.P())
	g := big.NewInt(int64(alice.G()))
	A := entropy.Decode(alice.A())

	B := entropy.ModExp(g, bInt, p)
	bBuf, err := entropy.Encode(B, PUBSIZE)
	if err != nil {
		return nil, toDHMError(err)
	}
	copy(pkt.B(), bBuf)

	secret := entropy.ModExp(A, bInt, p)
	secretBuf, err := entropy.Encode(secret, PUBSIZE)
	if err != nil {
		return nil, toDHMError(err)
	}
	copy(s.secret[:], secretBuf)

	stampHash(pkt.hashedRange(), pkt.Hash())

	log.Debugf("bob packet built for session %x", s.guid)
	return &pkt, nil
}

// AliceDeriveSecret validates Bob's packet and completes the initiator's
// side of the handshake: s = B^a mod p, written into the session's secret
// slot. p and a are the values GetAlice produced for this same session.
func AliceDeriveSecret(s *Session, alicePrime []byte, a [PRIVSIZE]byte, bob *BobPacket) error {
	if err := validateBob(bob); err != nil {
		return err
	}

	p := entropy.Decode(alicePrime)
	B := entropy.Decode(bob.B())
	aInt := entropy.Decode(a[:])

	secret := entropy.ModExp(B, aInt, p)
	secretBuf, err := entropy.Encode(secret, PUBSIZE)
	if err != nil {
		return toDHMError(err)
	}
	copy(s.secret[:], secretBuf)
	return nil
}

// samplePrime fills width random bytes, forces the top bit of byte 0 and the
// low bit of the last byte, and advances to the next probable prime if the
// sampled value isn't one itself.
func samplePrime(src *entropy.Source, width int) (*big.Int, error) {
	buf := make([]byte, width)
	if err := src.Read(buf); err != nil {
		return nil, toDHMError(err)
	}
	buf[0] |= 0x80
	buf[width-1] |= 0x01

	p := entropy.Decode(buf)
	if !entropy.ProbablyPrime(p, primalityRounds) {
		p = entropy.NextPrime(p, primalityRounds)
	}
	return p, nil
}

func stampHash(rangeBytes []byte, hashField []byte) {
	h := bitcodec.SHA224(rangeBytes)
	copy(hashField, h[:])
}

func validateAlice(p *AlicePacket) error {
	if p.PackType() != AlicePacketType {
		return &Error{Kind: KindWrongPacketType}
	}
	want := bitcodec.SHA224(p.hashedRange())
	got := p.Hash()
	for i := range want {
		if want[i] != got[i] {
			return &Error{Kind: KindHashFailure}
		}
	}
	return nil
}

func validateBob(p *BobPacket) error {
	if p.PackType() != BobPacketType {
		return &Error{Kind: KindWrongPacketType}
	}
	want := bitcodec.SHA224(p.hashedRange())
	got := p.Hash()
	for i := range want {
		if want[i] != got[i] {
			return &Error{Kind: KindHashFailure}
		}
	}
	return nil
}
