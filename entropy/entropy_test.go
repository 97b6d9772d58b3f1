package entropy

import (
	"bytes"
	"math/big"
	"testing"
)

func TestSourceReadFillsBuffer(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	buf := make([]byte, 272)
	if err := s.Read(buf); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(buf, make([]byte, 272)) {
		t.Fatalf("random read returned all zero bytes")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n := big.NewInt(0x1234)
	buf, err := Encode(n, 46)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != 46 {
		t.Fatalf("expected 46 byte buffer, got %d", len(buf))
	}
	for i := 0; i < 44; i++ {
		if buf[i] != 0 {
			t.Fatalf("expected leading zero padding at byte %d", i)
		}
	}
	got := Decode(buf)
	if got.Cmp(n) != 0 {
		t.Fatalf("decode mismatch: got %x want %x", got, n)
	}
}

func TestEncodeRejectsOverflow(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 64)
	if _, err := Encode(n, 4); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestNextPrimeAdvancesToProbablePrime(t *testing.T) {
	even := big.NewInt(100)
	p := NextPrime(even, 50)
	if !ProbablyPrime(p, 50) {
		t.Fatalf("NextPrime(%v) = %v is not probably prime", even, p)
	}
	if p.Cmp(even) <= 0 {
		t.Fatalf("NextPrime(%v) = %v did not advance", even, p)
	}
}

func TestLCMAndGCD(t *testing.T) {
	a := big.NewInt(21)
	b := big.NewInt(6)
	if GCD(a, b).Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("gcd(21,6) should be 3")
	}
	if LCM(a, b).Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("lcm(21,6) should be 42")
	}
}

func TestModInverse(t *testing.T) {
	a := big.NewInt(3)
	m := big.NewInt(11)
	inv, ok := ModInverse(a, m)
	if !ok {
		t.Fatal("expected inverse to exist")
	}
	check := new(big.Int).Mod(new(big.Int).Mul(a, inv), m)
	if check.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("3 * %v mod 11 should be 1, got %v", inv, check)
	}
}
