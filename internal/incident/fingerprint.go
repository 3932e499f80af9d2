package incident

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rvasily/incident-capture-service/internal/document"
)

// Fingerprint derives the content hash of a captured request: SHA-256 over
// the canonical encoding of the headers followed directly by the canonical
// encoding of the body, with no separator, rendered as lowercase hex.
//
// Because the encoding sorts object keys, the key order of the submitted
// documents never changes the result. The missing separator is deliberate:
// existing fingerprints were computed on the raw concatenation.
func Fingerprint(headers, body document.Value) (string, error) {
	hb, err := headers.Encode()
	if err != nil {
		return "", err
	}
	bb, err := body.Encode()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write(hb)
	h.Write(bb)
	return hex.EncodeToString(h.Sum(nil)), nil
}
