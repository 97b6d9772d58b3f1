package bitcodec

import "testing"

func TestCRC32Vector(t *testing.T) {
	got := CRC32([]byte("123456789"))
	if got != 0xCBF43926 {
		t.Fatalf("CRC32(\"123456789\") = 0x%08X, want 0xCBF43926", got)
	}
}

func TestReversibleTimeRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	PutReversibleTime(buf, 1700000000)
	if got := ReversibleTime(buf); got != 1700000000 {
		t.Fatalf("got %d, want 1700000000", got)
	}
}

func TestReversibleFloat32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	PutReversibleFloat32(buf, 37.7750)
	got := ReversibleFloat32(buf)
	diff := got - 37.7750
	if diff < 0 {
		diff = -diff
	}
	if diff > 0.0001 {
		t.Fatalf("got %f, want ~37.7750", got)
	}
}

func TestUint32BERoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	PutUint32BE(buf, 0xDEADBEEF)
	if got := Uint32BE(buf); got != 0xDEADBEEF {
		t.Fatalf("got 0x%08X, want 0xDEADBEEF", got)
	}
}
