package bitcodec

import (
	"crypto/sha256"
	"crypto/sha512"
)

// SHASIZE is the SHA-224 digest width used by DHM packet hashes.
const SHASIZE = 28

// SHA224 returns the SHA-224 digest of data. DHM packets are unkeyed-hash
// integrity checks, not MACs: nothing here binds the digest to a shared
// secret, matching spec.md's security stance.
func SHA224(data []byte) [SHASIZE]byte {
	return sha256.Sum224(data)
}

// SHA512 returns the SHA-512 digest of data, used by the raw-RSA signature
// primitive.
func SHA512(data []byte) [sha512.Size]byte {
	return sha512.Sum512(data)
}
