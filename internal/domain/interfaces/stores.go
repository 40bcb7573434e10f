package interfaces

import (
	"context"

	domaintypes "dotflow/internal/domain/types"
)

// IdentityStore persists identities and their ownership on the ledger.
type IdentityStore interface {
	// CreateIdentity allocates the next identity ID for owner.
	CreateIdentity(ctx context.Context, owner domaintypes.AccountID) (domaintypes.Identity, error)
	LoadIdentity(ctx context.Context, id domaintypes.IdentityID) (domaintypes.Identity, bool, error)
	IdentityOf(ctx context.Context, owner domaintypes.AccountID) (domaintypes.Identity, bool, error)
	SetRecoveryAccount(ctx context.Context, id domaintypes.IdentityID, account domaintypes.AccountID) error
	TransferOwnership(ctx context.Context, id domaintypes.IdentityID, newOwner domaintypes.AccountID) error
	// DeleteIdentity removes the identity together with all of its address records.
	DeleteIdentity(ctx context.Context, id domaintypes.IdentityID) (bool, error)
}

// RecordStore is the ciphertext-addressable vault keyed by (identity, chain).
type RecordStore interface {
	PutRecord(ctx context.Context, record domaintypes.AddressRecord) error
	LoadRecord(
		ctx context.Context,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
	) (domaintypes.AddressRecord, bool, error)
	// SetKeyVersion stamps the record with a newer key version without
	// touching its ciphertext. It reports false when no record exists.
	SetKeyVersion(
		ctx context.Context,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
		version domaintypes.KeyVersion,
		updatedAt int64,
	) (bool, error)
	DeleteRecord(ctx context.Context, id domaintypes.IdentityID, chain domaintypes.ChainID) (bool, error)
	ListRecords(ctx context.Context, id domaintypes.IdentityID) ([]domaintypes.AddressRecord, error)
}

// ChainStore persists the chain registry.
type ChainStore interface {
	AddChain(ctx context.Context, info domaintypes.ChainInfo) (domaintypes.ChainID, error)
	UpdateChain(ctx context.Context, info domaintypes.ChainInfo) (bool, error)
	RemoveChain(ctx context.Context, id domaintypes.ChainID) (bool, error)
	LoadChain(ctx context.Context, id domaintypes.ChainID) (domaintypes.ChainInfo, bool, error)
	ListChains(ctx context.Context) ([]domaintypes.ChainInfo, error)
}

// AddressBookStore persists per-account address books.
type AddressBookStore interface {
	CreateBook(ctx context.Context, owner domaintypes.AccountID) error
	DeleteBook(ctx context.Context, owner domaintypes.AccountID) (bool, error)
	HasBook(ctx context.Context, owner domaintypes.AccountID) (bool, error)
	AddEntry(ctx context.Context, entry domaintypes.AddressBookEntry) error
	DeleteEntry(ctx context.Context, owner domaintypes.AccountID, id domaintypes.IdentityID) (bool, error)
	UpdateNickname(
		ctx context.Context,
		owner domaintypes.AccountID,
		id domaintypes.IdentityID,
		nickname domaintypes.Nickname,
	) (bool, error)
	ListEntries(ctx context.Context, owner domaintypes.AccountID) ([]domaintypes.AddressBookEntry, error)
	LookupNickname(
		ctx context.Context,
		owner domaintypes.AccountID,
		nickname domaintypes.Nickname,
	) (domaintypes.IdentityID, bool, error)
}

// KeyStore is the owner's private keyring. It is never shared.
type KeyStore interface {
	SaveChainKey(id domaintypes.IdentityID, key domaintypes.ChainKey) error
	LoadChainKey(id domaintypes.IdentityID, chain domaintypes.ChainID) (domaintypes.ChainKey, bool, error)
	DeleteChainKey(id domaintypes.IdentityID, chain domaintypes.ChainID) (bool, error)
	ListChainKeys(id domaintypes.IdentityID) ([]domaintypes.ChainKey, error)
	// LastVersion returns the highest version ever issued for the pair,
	// including revoked keys.
	LastVersion(id domaintypes.IdentityID, chain domaintypes.ChainID) (domaintypes.KeyVersion, bool, error)
}

// RecordReader reads public address records, locally or from a remote vault.
type RecordReader interface {
	Get(
		ctx context.Context,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
	) (domaintypes.AddressRecord, error)
}
