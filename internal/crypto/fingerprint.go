package crypto

import (
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"dotflow/internal/domain"
)

// Fingerprint returns a short hex fingerprint of b.
//
// It hashes with BLAKE2b-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(b []byte) domain.Fingerprint {
	sum := blake2b.Sum256(b)
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }
