package kr

import (
	"crypto/rand"

	"github.com/keybase/saltpack/encoding/basex"
	uuid "github.com/satori/go.uuid"
)

// NewCorrelationID returns a fresh UUID tagging one CLI invocation's log
// lines, so a user can grep a single run out of a shared log file. It has
// nothing to do with the DHM wire GUID, which stays the spec-mandated 12
// raw bytes the protocol carries on the wire.
func NewCorrelationID() string {
	return uuid.NewV4().String()
}

// RandNBytes returns n cryptographically random bytes.
func RandNBytes(n uint) (randBytes []byte, err error) {
	randBytes = make([]byte, n)
	_, err = rand.Read(randBytes)
	return
}

// ShortID returns a compact base62 encoding of 16 random bytes, used where
// a correlation tag needs to be short enough to type or paste rather than a
// full UUID.
func ShortID() (string, error) {
	b, err := RandNBytes(16)
	if err != nil {
		return "", err
	}
	return basex.Base62StdEncoding.EncodeToString(b), nil
}
