package rsakeygen

import (
	"context"
	"math/big"
	"runtime"
	"sync"

	"github.com/kryptco/dhmrsa/entropy"
	"github.com/kryptco/dhmrsa/internal/kr"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("rsakeygen")

const primalityRounds = 50

// smallPrimes lists every odd prime ≤ 100; p-1 and q-1 must share no factor
// with any of them. 2 is left out because p-1 and q-1 are always even.
var smallPrimes = []int64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97,
}

// Generate races up to workers goroutines to produce a structurally valid
// RSA private key of the given bit size. workers<=0 selects the detected
// logical CPU count, capped at MaxWorkers. device selects the randomness
// source ("" uses entropy.DefaultDevice).
//
// The winning worker's key is returned once every other worker has observed
// cancellation and returned - no partial keyfile is ever observable, and no
// worker goroutine outlives Generate (spec.md §9's "clean reimplementation"
// of the source's exit()-on-win behavior).
func Generate(bits, workers int, device string) (*Key, error) {
	if err := validateBits(bits); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	src, err := entropy.Open(device)
	if err != nil {
		return nil, wrapEntropyErr(err)
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		winner  *Key
		wg      sync.WaitGroup
		fatal   error
		fatalMu sync.Mutex
	)

	for id := 0; id < workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			kr.RecoverToLog(func() {
				attempts := 0
				for ctx.Err() == nil {
					attempts++
					key, err := attemptKey(src, bits)
					if err != nil {
						fatalMu.Lock()
						if fatal == nil {
							fatal = err
						}
						fatalMu.Unlock()
						cancel()
						return
					}
					if key == nil {
						log.Debugf("worker %d: candidate %d rejected, retrying", id, attempts)
						continue
					}
					mu.Lock()
					if winner == nil {
						winner = key
						log.Noticef("worker %d produced a valid %d-bit key after %d attempts", id, bits, attempts)
						cancel()
					}
					mu.Unlock()
					return
				}
			}, log)
		}(id)
	}

	wg.Wait()

	if winner != nil {
		return winner, nil
	}
	if fatal != nil {
		return nil, fatal
	}
	return nil, &Error{Kind: KindCancelled}
}

// attemptKey runs one full candidate attempt. A nil, nil return means the
// candidate was rejected and the caller should retry; a non-nil error is
// fatal (I/O failure reading the randomness source).
func attemptKey(src *entropy.Source, bits int) (*Key, error) {
	half := bits / 2

	p, err := candidatePrime(src, half)
	if err != nil {
		return nil, err
	}
	q, err := candidatePrime(src, half)
	if err != nil {
		return nil, err
	}
	forceDistinctTopNibble(p, q, half)
	if !entropy.ProbablyPrime(q, primalityRounds) {
		q = entropy.NextPrime(q, primalityRounds)
	}

	if p.Cmp(q) == 0 {
		return nil, nil
	}

	pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
	if hasSmallFactor(pMinus1) || hasSmallFactor(qMinus1) {
		return nil, nil
	}

	n := new(big.Int).Mul(p, q)
	lambda := entropy.LCM(pMinus1, qMinus1)

	e := big.NewInt(65536)
	e = entropy.NextPrime(e, primalityRounds)
	for !entropy.IsCoprime(e, lambda) {
		e = entropy.NextPrime(e, primalityRounds)
	}

	d, ok := entropy.ModInverse(e, lambda)
	if !ok {
		return nil, nil
	}
	if d.BitLen() < bits-4 {
		return nil, nil
	}

	dp := new(big.Int).Mod(d, pMinus1)
	dq := new(big.Int).Mod(d, qMinus1)
	qinv, ok := entropy.ModInverse(q, p)
	if !ok {
		return nil, nil
	}

	return &Key{
		Bits: bits,
		N:    n,
		E:    e,
		D:    d,
		P:    p,
		Q:    q,
		Dp:   dp,
		Dq:   dq,
		Qinv: qinv,
	}, nil
}

// candidatePrime samples halfBits worth of random bits (byteWidth bytes),
// forces the top two bits of the first byte and the low bit of the last
// byte, and advances to the next probable prime if needed.
func candidatePrime(src *entropy.Source, halfBits int) (*big.Int, error) {
	byteWidth := halfBits / 8
	buf := make([]byte, byteWidth)
	if err := src.Read(buf); err != nil {
		return nil, wrapEntropyErr(err)
	}
	buf[0] |= 0xC0
	buf[byteWidth-1] |= 0x01

	p := entropy.Decode(buf)
	if !entropy.ProbablyPrime(p, primalityRounds) {
		p = entropy.NextPrime(p, primalityRounds)
	}
	return p, nil
}

// forceDistinctTopNibble guarantees p and q differ in the top nibble of
// their first byte (and therefore cannot be equal): if a fresh q happens to
// share p's top nibble, bits 4 and 5 of q's first byte are XOR-inverted.
func forceDistinctTopNibble(p, q *big.Int, halfBits int) {
	byteWidth := halfBits / 8
	pBuf, _ := entropy.Encode(p, byteWidth)
	qBuf, _ := entropy.Encode(q, byteWidth)
	if pBuf[0]&0xF0 == qBuf[0]&0xF0 {
		qBuf[0] ^= 0x30
		q.SetBytes(qBuf)
	}
}

// hasSmallFactor reports whether n shares a common factor with any odd
// prime ≤ 100.
func hasSmallFactor(n *big.Int) bool {
	for _, sp := range smallPrimes {
		if entropy.GCD(n, big.NewInt(sp)).Cmp(big.NewInt(1)) != 0 {
			return true
		}
	}
	return false
}

func wrapEntropyErr(err error) error {
	if ee, ok := err.(*entropy.Error); ok {
		kind := KindReadRandom
		if ee.Kind == entropy.KindOpenRandom {
			kind = KindOpenRandom
		}
		return &Error{Kind: kind, Err: ee}
	}
	return err
}
