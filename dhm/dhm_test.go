package dhm

import (
	"bytes"
	"testing"
)

func newTestSession(t *testing.T) *Session {
	s, err := Init("")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestHandshakeAgreesOnSecret(t *testing.T) {
	aliceSession := newTestSession(t)
	defer aliceSession.Close()
	bobSession := newTestSession(t)
	defer bobSession.Close()

	alicePkt, a, err := GetAlice(aliceSession)
	if err != nil {
		t.Fatal(err)
	}

	bobPkt, err := GetBob(bobSession, alicePkt)
	if err != nil {
		t.Fatal(err)
	}

	if err := AliceDeriveSecret(aliceSession, alicePkt.P(), a, bobPkt); err != nil {
		t.Fatal(err)
	}

	if aliceSession.Secret() != bobSession.Secret() {
		t.Fatalf("alice and bob secrets disagree:\nalice=%x\nbob=  %x", aliceSession.Secret(), bobSession.Secret())
	}
}

func TestAlicePacketInvariants(t *testing.T) {
	s := newTestSession(t)
	defer s.Close()

	pkt, _, err := GetAlice(s)
	if err != nil {
		t.Fatal(err)
	}
	if pkt.PackType() != AlicePacketType {
		t.Fatalf("packtype = 0x%04X, want 0x%04X", pkt.PackType(), AlicePacketType)
	}
	g := pkt.G()
	if g != 3 && g != 5 {
		t.Fatalf("g = %d, want 3 or 5", g)
	}
	p := pkt.P()
	if p[0]&0x80 == 0 {
		t.Fatal("p top bit not set")
	}
	if p[len(p)-1]&0x01 == 0 {
		t.Fatal("p low bit not set")
	}
	if err := validateAlice(pkt); err != nil {
		t.Fatalf("freshly built alice packet failed self-validation: %v", err)
	}
}

func TestBobPacketGUIDMatchesSession(t *testing.T) {
	aliceSession := newTestSession(t)
	defer aliceSession.Close()
	bobSession := newTestSession(t)
	defer bobSession.Close()

	alicePkt, _, err := GetAlice(aliceSession)
	if err != nil {
		t.Fatal(err)
	}
	bobPkt, err := GetBob(bobSession, alicePkt)
	if err != nil {
		t.Fatal(err)
	}
	sessionGUID := bobSession.GUID()
	if !bytes.Equal(bobPkt.GUID(), sessionGUID[:]) {
		t.Fatal("bob packet GUID does not match session GUID")
	}
	if !bytes.Equal(bobPkt.GUID(), alicePkt.GUID()) {
		t.Fatal("bob packet GUID does not match alice packet GUID")
	}
}

func TestTamperedHashFails(t *testing.T) {
	s := newTestSession(t)
	defer s.Close()

	pkt, _, err := GetAlice(s)
	if err != nil {
		t.Fatal(err)
	}
	pkt[aliceOffP] ^= 0xFF

	bobSession := newTestSession(t)
	defer bobSession.Close()
	_, err = GetBob(bobSession, pkt)
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindHashFailure {
		t.Fatalf("expected HashFailure, got %v", err)
	}
}

func TestWrongPackTypeFails(t *testing.T) {
	s := newTestSession(t)
	defer s.Close()

	pkt, _, err := GetAlice(s)
	if err != nil {
		t.Fatal(err)
	}
	pkt.setPackType(0x0000)

	bobSession := newTestSession(t)
	defer bobSession.Close()
	_, err = GetBob(bobSession, pkt)
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindWrongPacketType {
		t.Fatalf("expected WrongPacketType, got %v", err)
	}
}

func TestRegistryPutGet(t *testing.T) {
	r, err := NewRegistry(4)
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t)
	defer s.Close()
	r.Put(s)
	got, ok := r.Get(s.GUID())
	if !ok || got != s {
		t.Fatal("expected to retrieve the session just registered")
	}
}
