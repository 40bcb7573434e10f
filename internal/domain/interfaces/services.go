package interfaces

import (
	"context"

	domaintypes "dotflow/internal/domain/types"
)

// Registry owns identity IDs, ownership checks and the chain registry.
type Registry interface {
	CreateIdentity(ctx context.Context, caller domaintypes.AccountID) (domaintypes.Identity, error)
	Identity(ctx context.Context, id domaintypes.IdentityID) (domaintypes.Identity, error)
	IdentityOf(ctx context.Context, account domaintypes.AccountID) (domaintypes.Identity, error)
	RequireOwner(
		ctx context.Context,
		id domaintypes.IdentityID,
		caller domaintypes.AccountID,
	) (domaintypes.Identity, error)
	SetRecoveryAccount(ctx context.Context, caller, recovery domaintypes.AccountID) error
	TransferOwnership(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		newOwner domaintypes.AccountID,
	) error
	RemoveIdentity(ctx context.Context, caller domaintypes.AccountID) error

	Chain(ctx context.Context, id domaintypes.ChainID) (domaintypes.ChainInfo, error)
	AvailableChains(ctx context.Context) ([]domaintypes.ChainInfo, error)
}

// Vault stores one encrypted address record per (identity, chain).
type Vault interface {
	RecordReader
	Put(ctx context.Context, caller domaintypes.AccountID, record domaintypes.AddressRecord) error
	Remove(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
	) error
	// MarkStale moves the record to version after a key rotation. The old
	// ciphertext stays unreadable until the address is registered again.
	MarkStale(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
		version domaintypes.KeyVersion,
	) error
	List(ctx context.Context, id domaintypes.IdentityID) ([]domaintypes.AddressRecord, error)
}

// KeyComposer manages the owner's per-chain keys and builds bundles from them.
type KeyComposer interface {
	GenerateKey(
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
		suite domaintypes.CipherSuite,
	) (domaintypes.ChainKey, error)
	RotateKey(id domaintypes.IdentityID, chain domaintypes.ChainID) (domaintypes.ChainKey, error)
	CurrentKey(id domaintypes.IdentityID, chain domaintypes.ChainID) (domaintypes.ChainKey, error)
	RevokeKey(id domaintypes.IdentityID, chain domaintypes.ChainID) error
	ComposeBundle(
		id domaintypes.IdentityID,
		chains []domaintypes.ChainID,
	) (domaintypes.IdentityKeyBundle, error)
	ComposeFullBundle(id domaintypes.IdentityID) (domaintypes.IdentityKeyBundle, error)
}

// DisclosureService builds restricted bundles and resolves addresses with them.
type DisclosureService interface {
	Compose(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chains []domaintypes.ChainID,
	) (domaintypes.IdentityKeyBundle, error)
	Resolve(
		ctx context.Context,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
		bundle domaintypes.IdentityKeyBundle,
	) ([]byte, error)
}

// AddressBookService maps per-account aliases to identities.
type AddressBookService interface {
	CreateBook(ctx context.Context, caller domaintypes.AccountID) error
	RemoveBook(ctx context.Context, caller domaintypes.AccountID) error
	HasBook(ctx context.Context, caller domaintypes.AccountID) (bool, error)
	AddIdentity(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		nickname domaintypes.Nickname,
	) error
	RemoveIdentity(ctx context.Context, caller domaintypes.AccountID, id domaintypes.IdentityID) error
	UpdateNickname(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		nickname domaintypes.Nickname,
	) error
	Lookup(
		ctx context.Context,
		caller domaintypes.AccountID,
		nickname domaintypes.Nickname,
	) (domaintypes.IdentityID, error)
	Entries(ctx context.Context, caller domaintypes.AccountID) ([]domaintypes.AddressBookEntry, error)
}

// IdentityService is the operation surface exposed to owners and counterparties.
type IdentityService interface {
	CreateIdentity(ctx context.Context, caller domaintypes.AccountID) (domaintypes.Identity, error)
	RegisterAddress(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
		address []byte,
	) (domaintypes.AddressRecord, error)
	RotateChainKey(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
	) (domaintypes.KeyVersion, error)
	RefreshAddress(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
	) (domaintypes.AddressRecord, error)
	RemoveAddress(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
	) error
	GetAddress(
		ctx context.Context,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
	) (domaintypes.AddressRecord, error)
	ComposeDisclosure(
		ctx context.Context,
		caller domaintypes.AccountID,
		id domaintypes.IdentityID,
		chains []domaintypes.ChainID,
	) (domaintypes.IdentityKeyBundle, error)
	ResolveAddress(
		ctx context.Context,
		id domaintypes.IdentityID,
		chain domaintypes.ChainID,
		bundle domaintypes.IdentityKeyBundle,
	) ([]byte, error)
}
