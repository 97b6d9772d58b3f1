package rsacodec

import (
	"context"
	"io"
	"math/big"
	"runtime"
	"sync"

	"github.com/kryptco/dhmrsa/bitcodec"
	"github.com/kryptco/dhmrsa/entropy"
	"github.com/kryptco/dhmrsa/internal/kr"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("rsacodec")

// worker owns one decrypt slot: a condition variable gates it between
// "idle" and "assigned a block", mirroring the one-signal-per-worker
// protocol this package is grounded on.
type worker struct {
	mu      sync.Mutex
	cond    *sync.Cond
	cipher  []byte
	plain   []byte
	curblk  int
	sigflag bool
	runflag bool
}

func newWorker(blockSize int) *worker {
	w := &worker{
		cipher:  make([]byte, blockSize),
		plain:   make([]byte, blockSize),
		runflag: true,
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// run is the worker's goroutine body: wait for a signal, decrypt (CRT if p,
// q, dp, dq, qinv are all non-nil, otherwise naive c^d mod n), bump the
// shared tally, repeat until runflag drops.
func (w *worker) run(ctx context.Context, d, n, p, q, dp, dq, qinv *big.Int, tally *tallyBarrier) {
	kr.RecoverToLog(func() {
		for {
			w.mu.Lock()
			for !w.sigflag && w.runflag {
				w.cond.Wait()
			}
			if !w.runflag {
				w.mu.Unlock()
				return
			}
			w.sigflag = false
			c := entropy.Decode(w.cipher)
			var m *big.Int
			if p != nil && q != nil && dp != nil && dq != nil && qinv != nil {
				m = crtDecrypt(c, p, q, dp, dq, qinv)
			} else {
				m = entropy.ModExp(c, d, n)
			}
			blockSize := len(w.plain)
			buf, err := entropy.Encode(m, blockSize)
			if err == nil {
				copy(w.plain, buf)
			}
			w.mu.Unlock()
			tally.bump()
		}
	}, log)
}

func (w *worker) assign(curblk int, cipher []byte) {
	w.mu.Lock()
	w.curblk = curblk
	copy(w.cipher, cipher)
	w.sigflag = true
	w.mu.Unlock()
	w.cond.Signal()
}

func (w *worker) shutdown() {
	w.mu.Lock()
	w.runflag = false
	w.mu.Unlock()
	w.cond.Signal()
}

// crtDecrypt implements m1 = c^dp mod p; m2 = c^dq mod q;
// h = qinv*(m1-m2) mod p; m = m2 + h*q.
func crtDecrypt(c, p, q, dp, dq, qinv *big.Int) *big.Int {
	m1 := entropy.ModExp(c, dp, p)
	m2 := entropy.ModExp(c, dq, q)
	h := new(big.Int).Sub(m1, m2)
	h.Mul(h, qinv)
	h.Mod(h, p)
	if h.Sign() < 0 {
		h.Add(h, p)
	}
	m := new(big.Int).Mul(h, q)
	m.Add(m, m2)
	return m
}

// tallyBarrier is the orchestrator's "wait until a batch of blocks has all
// been decrypted" rendezvous.
type tallyBarrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	tally int
}

func newTallyBarrier() *tallyBarrier {
	b := &tallyBarrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *tallyBarrier) bump() {
	b.mu.Lock()
	b.tally++
	b.cond.Signal()
	b.mu.Unlock()
}

func (b *tallyBarrier) waitFor(n int) {
	b.mu.Lock()
	for b.tally < n {
		b.cond.Wait()
	}
	b.tally = 0
	b.mu.Unlock()
}

// Decrypt reads ciphertext blocks from r, decrypts them with the given
// private key using workers parallel goroutines, and writes the recovered
// plaintext to w. p, q, dp, dq, qinv may be nil to force the naive c^d mod n
// path instead of CRT acceleration.
//
// ciphertext length must be an exact multiple of the block size; the first
// block's fileinfo header must self-validate (size/size_xor, crc/crc_xor)
// or ErrKeyError is returned with no output written. Once the full stream
// is written, the CRC of the recovered plaintext is compared against the
// header's embedded CRC; a mismatch yields ErrCrcMismatch after all
// plaintext bytes have already been written, matching the source behavior
// of reporting integrity failures only after spooling the recovered file.
func Decrypt(w io.Writer, r io.Reader, d, n, p, q, dp, dq, qinv *big.Int, workers int) error {
	blockSize := (n.BitLen() + 7) / 8

	ciphertext, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(ciphertext) == 0 {
		return &Error{Kind: KindEmptyInput}
	}
	if len(ciphertext)%blockSize != 0 {
		return &Error{Kind: KindBadLength}
	}

	numBlocks := len(ciphertext) / blockSize
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > numBlocks {
		workers = numBlocks
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tally := newTallyBarrier()
	pool := make([]*worker, workers)
	for i := range pool {
		pool[i] = newWorker(blockSize)
		go pool[i].run(ctx, d, n, p, q, dp, dq, qinv, tally)
	}
	defer func() {
		for _, wk := range pool {
			wk.shutdown()
		}
	}()

	plaintext := make([][]byte, numBlocks)

	for batchStart := 0; batchStart < numBlocks; batchStart += workers {
		batchSize := workers
		if batchStart+batchSize > numBlocks {
			batchSize = numBlocks - batchStart
		}
		for i := 0; i < batchSize; i++ {
			idx := batchStart + i
			cipher := ciphertext[idx*blockSize : (idx+1)*blockSize]
			pool[i].assign(idx+1, cipher)
		}
		tally.waitFor(batchSize)
		log.Debugf("decrypted blocks %d-%d of %d", batchStart+1, batchStart+batchSize, numBlocks)
		for i := 0; i < batchSize; i++ {
			idx := batchStart + i
			out := make([]byte, blockSize)
			copy(out, pool[i].plain)
			plaintext[idx] = out
		}
	}

	var header fileinfoHeader
	var ok bool
	var written uint32
	var recovered []byte

	for i, block := range plaintext {
		if i == 0 {
			header, ok = parseFileinfoHeader(block[prefixSize:])
			if !ok {
				return &Error{Kind: KindKeyError}
			}
			cap0 := firstBlockCapacity(blockSize)
			n0 := cap0
			if remaining := header.Size - written; uint32(n0) > remaining {
				n0 = int(remaining)
			}
			recovered = append(recovered, block[prefixSize+fileinfoHeaderSize:prefixSize+fileinfoHeaderSize+n0]...)
			written += uint32(n0)
			continue
		}
		capN := subsequentBlockCapacity(blockSize)
		remaining := header.Size - written
		nN := capN
		if uint32(nN) > remaining {
			nN = int(remaining)
		}
		recovered = append(recovered, block[prefixSize:prefixSize+nN]...)
		written += uint32(nN)
		if written >= header.Size {
			break
		}
	}

	if _, err := w.Write(recovered); err != nil {
		return err
	}

	if bitcodec.CRC32(recovered) != header.crc {
		return &Error{Kind: KindCrcMismatch}
	}

	log.Infof("decrypted %d bytes, timestamp=%d lat=%f long=%f", header.Size, header.Time, header.Latitude, header.Longitude)

	return nil
}
