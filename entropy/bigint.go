package entropy

import "math/big"

// ModExp computes base^exp mod m.
func ModExp(base, exp, m *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, m)
}

// ProbablyPrime runs rounds of Miller-Rabin (via math/big's implementation,
// which also sieves small factors first) against n. Every caller in this
// repository passes rounds=50, the value spec.md mandates throughout.
func ProbablyPrime(n *big.Int, rounds int) bool {
	return n.ProbablyPrime(rounds)
}

// NextPrime returns the smallest probable prime strictly greater than n,
// tested with the same round count ProbablyPrime uses elsewhere in the
// caller. It never mutates n.
func NextPrime(n *big.Int, rounds int) *big.Int {
	c := new(big.Int).Set(n)
	one := big.NewInt(1)
	two := big.NewInt(2)
	if c.Bit(0) == 0 {
		c.Add(c, one)
	} else {
		c.Add(c, two)
	}
	for !ProbablyPrime(c, rounds) {
		c.Add(c, two)
	}
	return c
}

// ModInverse returns a^-1 mod m. ok is false if no inverse exists (a and m
// are not coprime).
func ModInverse(a, m *big.Int) (inv *big.Int, ok bool) {
	inv = new(big.Int).ModInverse(a, m)
	return inv, inv != nil
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// LCM returns the least common multiple of a and b.
func LCM(a, b *big.Int) *big.Int {
	g := GCD(a, b)
	if g.Sign() == 0 {
		return big.NewInt(0)
	}
	l := new(big.Int).Div(a, g)
	l.Mul(l, b)
	return l
}

// IsCoprime reports whether gcd(a, b) == 1.
func IsCoprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(big.NewInt(1)) == 0
}
