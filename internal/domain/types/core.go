package types

import "strconv"

// AccountID identifies a ledger account (the caller of an operation).
type AccountID string

// String returns the string form of the account.
func (a AccountID) String() string { return string(a) }

// IdentityID uniquely identifies a registered identity.
type IdentityID uint32

// String returns the decimal form of the identifier.
func (id IdentityID) String() string { return strconv.FormatUint(uint64(id), 10) }

// ChainID identifies a blockchain in the chain registry.
type ChainID uint32

// String returns the decimal form of the identifier.
func (id ChainID) String() string { return strconv.FormatUint(uint64(id), 10) }

// KeyVersion counts rotations of a chain key. It starts at 0.
type KeyVersion uint32

// Nickname is an optional alias for an identity inside an address book.
type Nickname string

// String returns the string form of the nickname.
func (n Nickname) String() string { return string(n) }

// Fingerprint is a short identifier for key material presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

const (
	// AddressSizeLimit is the maximum plaintext address length in bytes.
	AddressSizeLimit = 128
	// NicknameLengthLimit is the maximum nickname length in bytes.
	NicknameLengthLimit = 16
	// RPCURLLimit is the maximum length of a single chain RPC URL.
	RPCURLLimit = 100
)
