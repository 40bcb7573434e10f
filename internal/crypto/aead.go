package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"dotflow/internal/domain"
)

const (
	// KeyBytes is the key length of every supported suite.
	KeyBytes = 32
	// NonceBytesAESGCM is the GCM standard nonce length.
	NonceBytesAESGCM = 12
	// NonceBytesXChaCha is the XChaCha20-Poly1305 nonce length.
	NonceBytesXChaCha = chacha20poly1305.NonceSizeX

	addressADPrefix = "dotflow/address/v1"
)

var (
	// ErrUnsupportedSuite is returned for a suite tag outside the closed set.
	ErrUnsupportedSuite = errors.New("unsupported cipher suite")
	// ErrInvalidKey is returned when a key does not match the suite key length.
	ErrInvalidKey = errors.New("invalid key length for cipher suite")
)

// newAEAD dispatches on the suite tag.
func newAEAD(suite domain.CipherSuite, key []byte) (cipher.AEAD, error) {
	switch suite {
	case domain.SuiteAES256GCM:
		if len(key) != KeyBytes {
			return nil, ErrInvalidKey
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case domain.SuiteXChaCha20Poly1305:
		if len(key) != chacha20poly1305.KeySize {
			return nil, ErrInvalidKey
		}
		return chacha20poly1305.NewX(key)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSuite, suite)
	}
}

// NonceSize returns the nonce length used by suite.
func NonceSize(suite domain.CipherSuite) (int, error) {
	switch suite {
	case domain.SuiteAES256GCM:
		return NonceBytesAESGCM, nil
	case domain.SuiteXChaCha20Poly1305:
		return NonceBytesXChaCha, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedSuite, suite)
	}
}

// GenerateKey returns a fresh random key for suite.
func GenerateKey(suite domain.CipherSuite) ([]byte, error) {
	if !suite.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSuite, suite)
	}
	key := make([]byte, KeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals plaintext under key with a nonce generated for this call only.
func Encrypt(suite domain.CipherSuite, key, plaintext, ad []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newAEAD(suite, key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return aead.Seal(nil, nonce, plaintext, ad), nonce, nil
}

// Decrypt opens ciphertext. Every failure maps to domain.ErrDecryptFailure.
func Decrypt(suite domain.CipherSuite, key, ciphertext, nonce, ad []byte) ([]byte, error) {
	aead, err := newAEAD(suite, key)
	if err != nil {
		return nil, domain.ErrDecryptFailure
	}
	if len(nonce) != aead.NonceSize() {
		return nil, domain.ErrDecryptFailure
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, domain.ErrDecryptFailure
	}
	return plaintext, nil
}

// AddressAD binds a ciphertext to (identity, chain, key version, suite) so a
// record copied into another vault slot no longer authenticates.
func AddressAD(
	id domain.IdentityID,
	chain domain.ChainID,
	version domain.KeyVersion,
	suite domain.CipherSuite,
) []byte {
	ad := make([]byte, 0, len(addressADPrefix)+13)
	ad = append(ad, addressADPrefix...)
	ad = binary.BigEndian.AppendUint32(ad, uint32(id))
	ad = binary.BigEndian.AppendUint32(ad, uint32(chain))
	ad = binary.BigEndian.AppendUint32(ad, uint32(version))
	return append(ad, byte(suite))
}
