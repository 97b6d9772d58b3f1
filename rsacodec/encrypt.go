package rsacodec

import (
	"io"
	"math/big"

	"github.com/kryptco/dhmrsa/bitcodec"
	"github.com/kryptco/dhmrsa/entropy"
)

// Geolocation is the optional latitude/longitude stamped into a block's
// fileinfo header or signature footer. Zero values are valid and mean "not
// set".
type Geolocation struct {
	Latitude  float32
	Longitude float32
}

// Encrypt reads all of r, encrypts it block-by-block under the public key
// (e, n), and writes the ciphertext blocks to w. now is the epoch-seconds
// timestamp stamped into the first block; callers pass time.Now().Unix()
// rather than this package calling time.Now() itself, keeping the codec
// deterministic and easy to test.
//
// An empty input is rejected: the source this is grounded on silently exits
// without writing anything for a zero-length file, which this package
// surfaces as an *Error of KindEmptyInput instead.
func Encrypt(w io.Writer, r io.Reader, e, n *big.Int, now int64, geo Geolocation, src *entropy.Source) error {
	blockSize := (n.BitLen() + 7) / 8

	plain, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(plain) == 0 {
		return &Error{Kind: KindEmptyInput}
	}

	crc := bitcodec.CRC32(plain)

	firstCap := firstBlockCapacity(blockSize)
	restCap := subsequentBlockCapacity(blockSize)

	block := make([]byte, blockSize)
	if err := fillRandomBlock(src, block); err != nil {
		return err
	}

	flagsBuf := make([]byte, 1)
	if err := src.Read(flagsBuf); err != nil {
		return err
	}
	flags := flagsBuf[0] &^ 0x80

	n1 := firstCap
	if n1 > len(plain) {
		n1 = len(plain)
	}
	putFileinfoHeader(block[prefixSize:], fileinfoHeader{
		Flags:     flags,
		Size:      uint32(len(plain)),
		Time:      now,
		Latitude:  geo.Latitude,
		Longitude: geo.Longitude,
	}, crc)
	copy(block[prefixSize+fileinfoHeaderSize:], plain[:n1])

	cipher, err := encryptBlock(block, e, n, blockSize)
	if err != nil {
		return err
	}
	if _, err := w.Write(cipher); err != nil {
		return err
	}

	off := n1
	for off < len(plain) {
		if err := fillRandomBlock(src, block); err != nil {
			return err
		}
		n2 := restCap
		if off+n2 > len(plain) {
			n2 = len(plain) - off
		}
		copy(block[prefixSize:], plain[off:off+n2])

		cipher, err := encryptBlock(block, e, n, blockSize)
		if err != nil {
			return err
		}
		if _, err := w.Write(cipher); err != nil {
			return err
		}
		off += n2
	}

	return nil
}
