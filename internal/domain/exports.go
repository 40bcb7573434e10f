package domain

import (
	interfaces "dotflow/internal/domain/interfaces"
	types "dotflow/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	AccountID         = types.AccountID
	IdentityID        = types.IdentityID
	ChainID           = types.ChainID
	KeyVersion        = types.KeyVersion
	Nickname          = types.Nickname
	Fingerprint       = types.Fingerprint
	CipherSuite       = types.CipherSuite
	AccountType       = types.AccountType
	Identity          = types.Identity
	ChainInfo         = types.ChainInfo
	ChainKey          = types.ChainKey
	IdentityKeyBundle = types.IdentityKeyBundle
	AddressRecord     = types.AddressRecord
	AddressBookEntry  = types.AddressBookEntry
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityStore      = interfaces.IdentityStore
	RecordStore        = interfaces.RecordStore
	ChainStore         = interfaces.ChainStore
	AddressBookStore   = interfaces.AddressBookStore
	KeyStore           = interfaces.KeyStore
	RecordReader       = interfaces.RecordReader
	Registry           = interfaces.Registry
	Vault              = interfaces.Vault
	KeyComposer        = interfaces.KeyComposer
	DisclosureService  = interfaces.DisclosureService
	AddressBookService = interfaces.AddressBookService
	IdentityService    = interfaces.IdentityService
)

// Re-exported constants.
const (
	SuiteUnknown           = types.SuiteUnknown
	SuiteAES256GCM         = types.SuiteAES256GCM
	SuiteXChaCha20Poly1305 = types.SuiteXChaCha20Poly1305
	DefaultSuite           = types.DefaultSuite

	AccountID32  = types.AccountID32
	AccountKey20 = types.AccountKey20

	AddressSizeLimit    = types.AddressSizeLimit
	NicknameLengthLimit = types.NicknameLengthLimit
	RPCURLLimit         = types.RPCURLLimit
)

// ParseCipherSuite maps a canonical suite name to its tag.
func ParseCipherSuite(name string) (CipherSuite, error) { return types.ParseCipherSuite(name) }
