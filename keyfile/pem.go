package keyfile

import (
	"encoding/pem"

	"github.com/kryptco/dhmrsa/internal/kr"
)

// PrivateKeyLabel and PublicKeyLabel are the BEGIN/END markers for private
// and public keyfiles respectively.
const (
	PrivateKeyLabel = "PRIVATE KEY"
	PublicKeyLabel  = "PUBLIC KEY"
)

// WrapPEM base64-encodes binary keyfile data and wraps it with BEGIN/END
// markers, 64 characters per body line, matching spec.md §6's "optional PEM
// wrapper" exactly. stdlib's encoding/pem already produces this precise
// layout (64-char lines, no header lines when none are given), so no
// bespoke line-wrapping code is needed here.
func WrapPEM(label string, data []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: label, Bytes: data})
}

// UnwrapPEM strips the BEGIN/END markers and decodes the base64 body back
// into binary keyfile data.
func UnwrapPEM(label string, text []byte) ([]byte, error) {
	block, _ := pem.Decode(text)
	if block == nil || block.Type != label {
		return nil, &Error{Kind: KindBadPEM}
	}
	return block.Bytes, nil
}

// WrapStampedPEM is WrapPEM plus a Format-Version header line naming the
// keyfile format revision, used by `cmd/kr`'s `--pem` output so a reader
// can tell which layout produced a given file without trying to parse it.
func WrapStampedPEM(label string, data []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:    label,
		Headers: map[string]string{"Format-Version": kr.FormatVersion.String()},
		Bytes:   data,
	})
}
