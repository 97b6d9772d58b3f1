package dhm

import (
	"github.com/kryptco/dhmrsa/entropy"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("dhm")

// warmupBytes is the number of bytes a freshly-opened session reads and
// discards before sampling anything meaningful from the randomness source.
const warmupBytes = 32 * 256

// Session owns a randomness source handle, a session GUID, and the 272-byte
// slot a derived shared secret is eventually written into. Init and
// InitWithSource allocate the Session and return a pointer to it; the
// caller releases it with Close.
type Session struct {
	source *entropy.Source
	guid   [GUIDSIZE]byte
	secret [PUBSIZE]byte
	owned  bool
}

// Init acquires the randomness source, warms it, and populates the session
// GUID. device is the randomness device path; an empty string uses
// entropy.DefaultDevice.
func Init(device string) (*Session, error) {
	src, err := entropy.Open(device)
	if err != nil {
		return nil, toDHMError(err)
	}
	s := &Session{source: src, owned: true}
	if err := s.initFromSource(); err != nil {
		src.Close()
		return nil, err
	}
	return s, nil
}

// InitWithSource is the same as Init but reuses an already-open source
// (e.g. one shared by a long-running responder process), leaving ownership
// - and therefore Close - with the caller.
func InitWithSource(src *entropy.Source) (*Session, error) {
	s := &Session{source: src}
	if err := s.initFromSource(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) initFromSource() error {
	if err := s.source.Discard(warmupBytes); err != nil {
		return toDHMError(err)
	}
	if err := s.source.Read(s.guid[:]); err != nil {
		return toDHMError(err)
	}
	log.Debugf("dhm session %x initialized", s.guid)
	return nil
}

// Close releases the randomness source if this session opened it.
func (s *Session) Close() error {
	if !s.owned {
		return nil
	}
	if err := s.source.Close(); err != nil {
		return toDHMError(err)
	}
	return nil
}

// GUID returns the session's 12-byte correlation identifier.
func (s *Session) GUID() [GUIDSIZE]byte { return s.guid }

// Secret returns the derived shared secret slot. It is all-zero until either
// GetBob (responder side) or AliceDeriveSecret (initiator side) has run.
func (s *Session) Secret() [PUBSIZE]byte { return s.secret }

// toDHMError re-tags an *entropy.Error with the matching DHM taxonomy kind,
// so callers only ever see dhm.Error from this package's exported API.
func toDHMError(err error) error {
	ee, ok := err.(*entropy.Error)
	if !ok {
		return err
	}
	kind := KindReadRandom
	switch ee.Kind {
	case entropy.KindOpenRandom:
		kind = KindOpenRandom
	case entropy.KindCloseRandom:
		kind = KindCloseRandom
	}
	return &Error{Kind: kind, Err: ee}
}
