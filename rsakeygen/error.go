package rsakeygen

// Kind identifies a key-generation error taxonomy entry.
type Kind int

const (
	KindOpenRandom Kind = iota
	KindReadRandom
	KindBitSize
	KindCancelled
)

var kindText = [...]string{
	KindOpenRandom: "could not open randomness source",
	KindReadRandom: "short read from randomness source",
	KindBitSize:    "requested bit size is out of range",
	KindCancelled:  "key generation cancelled",
}

// Error is returned by Generate on any unrecoverable failure. Candidate
// rejections (bad prime spread, small factors, too-small d) are silent
// retries within a worker and never surface as an Error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return kindText[e.Kind] + ": " + e.Err.Error()
	}
	return kindText[e.Kind]
}

func (e *Error) Unwrap() error { return e.Err }
