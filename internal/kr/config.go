package kr

import (
	"os"
	"strconv"
)

// DefaultBits and DefaultDevice are overridable via KR_BITS and
// KR_RANDOM_DEVICE respectively, and the worker-pool size (default 0) via
// KR_WORKERS, following this codebase's env-var-driven configuration
// convention.
const (
	DefaultBits   = 2048
	DefaultDevice = ""
)

// Bits resolves the RSA key size to use, honoring KR_BITS.
func Bits() int {
	if v := os.Getenv("KR_BITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultBits
}

// Workers resolves the worker-pool size to use, honoring KR_WORKERS. A
// returned value of 0 means "let the pool decide" (logical CPU count).
func Workers() int {
	if v := os.Getenv("KR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Device resolves the randomness device path to use, honoring
// KR_RANDOM_DEVICE. An empty result means "use the package default".
func Device() string {
	return os.Getenv("KR_RANDOM_DEVICE")
}
