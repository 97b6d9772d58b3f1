package dhm

import (
	lru "github.com/hashicorp/golang-lru"
)

// Registry bounds the set of live sessions a long-running responder keeps
// around between receiving an Alice packet and being asked to hand back the
// matching Bob packet, keyed by the session's GUID. It mirrors the
// teacher's lru.Cache of pending SSH-agent handshakes, generalized from
// auth callbacks to DHM sessions.
type Registry struct {
	cache *lru.Cache
}

// NewRegistry builds a Registry holding at most size live sessions; the
// least-recently-touched session is evicted (and closed) once size is
// exceeded.
func NewRegistry(size int) (*Registry, error) {
	r := &Registry{}
	c, err := lru.NewWithEvict(size, func(key interface{}, value interface{}) {
		if s, ok := value.(*Session); ok {
			s.Close()
		}
	})
	if err != nil {
		return nil, err
	}
	r.cache = c
	return r, nil
}

// Put registers a session under its own GUID.
func (r *Registry) Put(s *Session) {
	r.cache.Add(s.GUID(), s)
}

// Get retrieves a previously-registered session by GUID.
func (r *Registry) Get(guid [GUIDSIZE]byte) (*Session, bool) {
	v, ok := r.cache.Get(guid)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Remove drops a session from the registry. Like an LRU eviction, this runs
// the eviction callback and so closes the session; closing a session whose
// source is already closed is a no-op.
func (r *Registry) Remove(guid [GUIDSIZE]byte) {
	r.cache.Remove(guid)
}

// Len reports how many sessions are currently registered.
func (r *Registry) Len() int {
	return r.cache.Len()
}
