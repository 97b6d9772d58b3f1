package rsacodec

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/kryptco/dhmrsa/bitcodec"
	"github.com/kryptco/dhmrsa/entropy"
	"github.com/kryptco/dhmrsa/rsakeygen"
)

func testKey(t *testing.T) *rsakeygen.Key {
	t.Helper()
	key, err := rsakeygen.Generate(768, 2, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return key
}

func openSource(t *testing.T) *entropy.Source {
	t.Helper()
	src, err := entropy.Open("")
	if err != nil {
		t.Fatalf("entropy.Open: %v", err)
	}
	return src
}

func TestCRC32Vector(t *testing.T) {
	if got := bitcodec.CRC32([]byte("123456789")); got != 0xCBF43926 {
		t.Fatalf("CRC32(\"123456789\") = %#x, want 0xCBF43926", got)
	}
}

func TestEncryptDecryptRoundTripSmallFile(t *testing.T) {
	key := testKey(t)
	src := openSource(t)
	defer src.Close()

	plain := []byte("the quick brown fox jumps over the lazy dog")
	var cipher bytes.Buffer
	if err := Encrypt(&cipher, bytes.NewReader(plain), key.E, key.N, 1700000000, Geolocation{}, src); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var out bytes.Buffer
	err := Decrypt(&out, bytes.NewReader(cipher.Bytes()), key.D, key.N, key.P, key.Q, key.Dp, key.Dq, key.Qinv, 2)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(out.Bytes(), plain) {
		t.Fatalf("round trip mismatch: got %q want %q", out.Bytes(), plain)
	}
}

func TestEncryptDecryptRoundTripMultiBlock(t *testing.T) {
	key := testKey(t)
	src := openSource(t)
	defer src.Close()

	blockSize := (key.N.BitLen() + 7) / 8
	plain := bytes.Repeat([]byte("0123456789abcdef"), blockSize)

	var cipher bytes.Buffer
	if err := Encrypt(&cipher, bytes.NewReader(plain), key.E, key.N, 1700000000, Geolocation{Latitude: 37.7, Longitude: -122.4}, src); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var out bytes.Buffer
	err := Decrypt(&out, bytes.NewReader(cipher.Bytes()), key.D, key.N, key.P, key.Q, key.Dp, key.Dq, key.Qinv, 4)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(out.Bytes(), plain) {
		t.Fatal("multi-block round trip mismatch")
	}
}

func TestEncryptRejectsEmptyInput(t *testing.T) {
	key := testKey(t)
	src := openSource(t)
	defer src.Close()

	var cipher bytes.Buffer
	err := Encrypt(&cipher, bytes.NewReader(nil), key.E, key.N, 0, Geolocation{}, src)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestDecryptDetectsCorruptHeader(t *testing.T) {
	key := testKey(t)
	src := openSource(t)
	defer src.Close()

	blockSize := (key.N.BitLen() + 7) / 8
	block := make([]byte, blockSize)
	if err := fillRandomBlock(src, block); err != nil {
		t.Fatal(err)
	}
	putFileinfoHeader(block[prefixSize:], fileinfoHeader{Size: 42}, 0)
	// Deliberately corrupt size_xor so the header fails self-validation.
	bitcodec.PutUint32BE(block[prefixSize+fhSizeXor:], 0x00000000)

	cipher, err := encryptBlock(block, key.E, key.N, blockSize)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err = Decrypt(&out, bytes.NewReader(cipher), key.D, key.N, key.P, key.Q, key.Dp, key.Dq, key.Qinv, 1)
	if err == nil {
		t.Fatal("expected KeyError for corrupt fileinfo header")
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != KindKeyError {
		t.Fatalf("expected KindKeyError, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatal("expected no output bytes written on header corruption")
	}
}

func TestFirstBlockZeroByteMask(t *testing.T) {
	src := openSource(t)
	defer src.Close()

	block := make([]byte, 256)
	block[0] = 0xFF
	if err := fillRandomBlock(src, block); err != nil {
		t.Fatal(err)
	}
	if block[0] != 0x00 {
		t.Fatalf("block[0] = %#x, want 0x00", block[0])
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	key := testKey(t)
	src := openSource(t)
	defer src.Close()

	content := []byte("message to be signed")

	var sig bytes.Buffer
	if err := Sign(&sig, bytes.NewReader(content), key.D, key.N, 1700000000, Geolocation{Latitude: 1.5, Longitude: -2.5}, src); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	result, err := Verify(bytes.NewReader(sig.Bytes()), bytes.NewReader(content), key.E, key.N)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.OK {
		t.Fatal("expected verify OK")
	}
	if result.Time != 1700000000 {
		t.Fatalf("Time = %d, want 1700000000", result.Time)
	}
}

func TestVerifyFailsOnTamperedContent(t *testing.T) {
	key := testKey(t)
	src := openSource(t)
	defer src.Close()

	content := []byte("message to be signed")
	tampered := []byte("Message to be signed")

	var sig bytes.Buffer
	if err := Sign(&sig, bytes.NewReader(content), key.D, key.N, 0, Geolocation{}, src); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	result, err := Verify(bytes.NewReader(sig.Bytes()), bytes.NewReader(tampered), key.E, key.N)
	if err == nil {
		t.Fatal("expected verify failure for tampered content")
	}
	if result.OK {
		t.Fatal("result.OK should be false")
	}
}

func TestCRTDecryptMatchesNaive(t *testing.T) {
	key := testKey(t)
	m := big.NewInt(123456789)
	c := entropy.ModExp(m, key.E, key.N)

	crtResult := crtDecrypt(c, key.P, key.Q, key.Dp, key.Dq, key.Qinv)
	naiveResult := entropy.ModExp(c, key.D, key.N)
	if crtResult.Cmp(naiveResult) != 0 {
		t.Fatal("CRT decrypt disagrees with naive decrypt")
	}
	if crtResult.Cmp(m) != 0 {
		t.Fatal("decrypted value does not match original message")
	}
}
