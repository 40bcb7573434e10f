// Package bundle encodes identity key bundles for out-of-band transfer.
//
// # Overview
//
// A bundle carries chain keys for one identity. The owner hands a restricted
// bundle to a counterparty, who uses it to decrypt the matching vault records.
//
// # Wire format
//
// All integers are big-endian.
//
//	magic    "DFKB"        4 bytes
//	version  1             1 byte
//	id       bundle UUID   16 bytes
//	identity IdentityID    4 bytes
//	count    entries       2 bytes
//	entries  count times:
//	    chain    4 bytes
//	    version  4 bytes
//	    suite    1 byte
//	    keylen   2 bytes
//	    key      keylen bytes
//
// # Armor
//
// Armor renders the binary form as "dfkb1" followed by base58 of the payload
// and a 4-byte BLAKE2b-256 checksum, so a bundle can be pasted into chat or
// email and typos are caught before any decryption is attempted.
//
// # Errors
//
// Every decoding failure wraps domain.ErrInvalidBundle.
package bundle
