package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// HashContent returns a stable hex digest of the given content using
// BLAKE2b-256. Identical content always produces identical digests, which
// makes the hash usable as a content-addressed key.
func HashContent(content string) string {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
