// Package entropy is the process-wide facade over cryptographic randomness
// and the arbitrary-precision modular arithmetic the DHM and RSA components
// build on. It owns exactly one concern per helper: callers supply their own
// buffers and big.Int values, this package never allocates session state.
package entropy

import (
	"crypto/rand"
	"io"
	"os"
	"sync"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("entropy")

// DefaultDevice is the conventional randomness device path. It is only used
// by Open when no override is given; Read always goes through crypto/rand
// once the device is confirmed openable, since crypto/rand.Reader already
// wraps the same device with the platform-correct behavior.
const DefaultDevice = "/dev/urandom"

// Source is a single process-wide handle on cryptographic randomness. Reads
// are serialized by a mutex: the facade is explicitly a shared resource, not
// one handle per caller.
type Source struct {
	mu     sync.Mutex
	handle *os.File
}

// Open acquires the randomness source. An empty path uses DefaultDevice.
// Opening the device is a sanity check that the platform has one available;
// actual reads are served by crypto/rand.Reader, which already layers
// /dev/urandom (or the platform equivalent) correctly, including on systems
// where opening the raw device path would behave differently than the
// blessed API.
func Open(path string) (*Source, error) {
	if path == "" {
		path = DefaultDevice
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: KindOpenRandom, Err: err}
	}
	return &Source{handle: f}, nil
}

// Close releases the randomness source.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return nil
	}
	err := s.handle.Close()
	s.handle = nil
	if err != nil {
		return &Error{Kind: KindCloseRandom, Err: err}
	}
	return nil
}

// Read fills buf entirely with fresh random bytes, serializing concurrent
// callers behind the source's mutex.
func (s *Source) Read(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := io.ReadFull(rand.Reader, buf)
	if err != nil || n != len(buf) {
		return &Error{Kind: KindReadRandom, Err: err}
	}
	return nil
}

// Discard reads and throws away n bytes, used to "warm" the source the way
// a freshly-opened DHM session does before sampling its first prime.
func (s *Source) Discard(n int) error {
	buf := make([]byte, n)
	return s.Read(buf)
}
