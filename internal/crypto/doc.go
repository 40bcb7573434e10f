// Package crypto is the cipher engine used by dotflow.
//
// Contents
//
//   - Per-chain key generation for a cipher suite (GenerateKey)
//   - AEAD sealing/opening of a single address blob with a fresh random nonce
//     (Encrypt, Decrypt), dispatched on the closed domain.CipherSuite tag
//   - Associated data binding a ciphertext to its vault slot (AddressAD)
//   - Best-effort memory wiping for key material (Wipe, WipeKey)
//   - Short fingerprints of ciphertexts and keys for display/logging (Fingerprint)
//
// # Notes
//
// Decrypt fails closed: any authentication failure, malformed nonce or key
// returns domain.ErrDecryptFailure and no plaintext. The package has no state
// and no side effects besides reading crypto/rand.
package crypto
