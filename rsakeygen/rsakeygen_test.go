package rsakeygen

import (
	"math/big"
	"testing"

	"github.com/kryptco/dhmrsa/entropy"
)

const testBits = 768

func genTestKey(t *testing.T) *Key {
	t.Helper()
	key, err := Generate(testBits, 2, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return key
}

func TestGenerateRejectsBadBitSize(t *testing.T) {
	if _, err := Generate(100, 1, ""); err == nil {
		t.Fatal("expected error for undersized bits")
	}
	if _, err := Generate(testBits+1, 1, ""); err == nil {
		t.Fatal("expected error for non-step-aligned bits")
	}
}

func TestGenerateModulusIsProductOfPQ(t *testing.T) {
	key := genTestKey(t)
	n := new(big.Int).Mul(key.P, key.Q)
	if n.Cmp(key.N) != 0 {
		t.Fatal("N != P*Q")
	}
	if key.P.Cmp(key.Q) == 0 {
		t.Fatal("P == Q")
	}
}

func TestGeneratePrimesHaveDistinctTopNibble(t *testing.T) {
	key := genTestKey(t)
	half := testBits / 2 / 8
	pBuf, err := entropy.Encode(key.P, half)
	if err != nil {
		t.Fatal(err)
	}
	qBuf, err := entropy.Encode(key.Q, half)
	if err != nil {
		t.Fatal(err)
	}
	if pBuf[0]&0xF0 == qBuf[0]&0xF0 {
		t.Fatal("p and q share a top nibble")
	}
}

func TestGenerateRejectsSmallFactors(t *testing.T) {
	key := genTestKey(t)
	pMinus1 := new(big.Int).Sub(key.P, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(key.Q, big.NewInt(1))
	if hasSmallFactor(pMinus1) || hasSmallFactor(qMinus1) {
		t.Fatal("p-1 or q-1 shares a small factor")
	}
}

func TestGenerateExponentsAreInverses(t *testing.T) {
	key := genTestKey(t)
	pMinus1 := new(big.Int).Sub(key.P, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(key.Q, big.NewInt(1))
	lambda := new(big.Int).Mul(pMinus1, qMinus1)
	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambda.Div(lambda, gcd)

	prod := new(big.Int).Mul(key.E, key.D)
	prod.Mod(prod, lambda)
	if prod.Cmp(big.NewInt(1)) != 0 {
		t.Fatal("e*d != 1 mod lambda(n)")
	}
	if key.D.BitLen() < testBits-4 {
		t.Fatalf("private exponent too short: %d bits", key.D.BitLen())
	}
}

func TestGenerateCRTValuesAreConsistent(t *testing.T) {
	key := genTestKey(t)
	pMinus1 := new(big.Int).Sub(key.P, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(key.Q, big.NewInt(1))

	dp := new(big.Int).Mod(key.D, pMinus1)
	if dp.Cmp(key.Dp) != 0 {
		t.Fatal("Dp != D mod (P-1)")
	}
	dq := new(big.Int).Mod(key.D, qMinus1)
	if dq.Cmp(key.Dq) != 0 {
		t.Fatal("Dq != D mod (Q-1)")
	}
	check := new(big.Int).Mul(key.Qinv, key.Q)
	check.Mod(check, key.P)
	if check.Cmp(big.NewInt(1)) != 0 {
		t.Fatal("Qinv is not Q^-1 mod P")
	}
}

func TestGenerateRoundTripsThroughModExp(t *testing.T) {
	key := genTestKey(t)
	m := big.NewInt(42)
	c := new(big.Int).Exp(m, key.E, key.N)
	recovered := new(big.Int).Exp(c, key.D, key.N)
	if recovered.Cmp(m) != 0 {
		t.Fatal("m^e^d mod n != m")
	}
}
