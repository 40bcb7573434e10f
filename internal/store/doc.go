// Package store provides persistence for dotflow.
//
// Two kinds of state live here and they never mix:
//
//   - Ledger: the shared, public SQLite database holding identities, the
//     chain registry, encrypted address records and address books. It only
//     ever sees ciphertext.
//   - Keyring: the owner's private chain keys. KeyringFileStore keeps them in
//     a passphrase-encrypted file (scrypt + ChaCha20-Poly1305) written
//     atomically; MemoryKeyring keeps them in process memory.
//
// All methods are concurrency-safe.
package store
