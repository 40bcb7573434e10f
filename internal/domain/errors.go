package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller does not own the identity
	// (or is not the chain registry admin).
	ErrUnauthorized = errors.New("caller is not allowed to perform this operation")
	// ErrIdentityNotFound is returned for an unknown identity.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrAlreadyIdentityOwner is returned when an account already owns an identity.
	ErrAlreadyIdentityOwner = errors.New("account already owns an identity")

	// ErrChainNotRegistered is returned when no chain key exists yet for a chain.
	ErrChainNotRegistered = errors.New("no key registered for chain")
	// ErrChainNotSupported is returned for a chain missing from the chain registry.
	ErrChainNotSupported = errors.New("chain is not in the chain registry")
	// ErrRPCURLTooLong is returned when a chain RPC URL exceeds RPCURLLimit.
	ErrRPCURLTooLong = fmt.Errorf("chain rpc url is too long (max %d bytes)", RPCURLLimit)

	// ErrRecordNotFound is returned on an address vault miss.
	ErrRecordNotFound = errors.New("address record not found")
	// ErrAddressSizeExceeded is returned when a plaintext address is too long.
	ErrAddressSizeExceeded = fmt.Errorf("address exceeds %d bytes", AddressSizeLimit)

	// ErrUnknownChain is returned when composing a bundle over a chain that has no key.
	ErrUnknownChain = errors.New("unknown chain in bundle request")
	// ErrEmptyDisclosure is returned when composing a bundle over no chains.
	ErrEmptyDisclosure = errors.New("disclosure must name at least one chain")
	// ErrKeyExists is returned when generating a key for a chain that already has one.
	ErrKeyExists = errors.New("chain key already exists")
	// ErrInvalidBundle is returned for a bundle that cannot be decoded.
	ErrInvalidBundle = errors.New("invalid identity key bundle")

	// ErrAddressUnreadable is the umbrella for every reason a holder cannot
	// read an address. Callers should surface only this error.
	ErrAddressUnreadable = errors.New("address cannot currently be read")
	// ErrDecryptFailure is returned when AEAD authentication fails.
	ErrDecryptFailure = fmt.Errorf("%w: decryption failed", ErrAddressUnreadable)
	// ErrKeyVersionStale is returned when the bundle key version does not match the record.
	ErrKeyVersionStale = fmt.Errorf("%w: key version is stale", ErrAddressUnreadable)
	// ErrChainNotDisclosed is returned when the bundle holds no key for the chain.
	ErrChainNotDisclosed = fmt.Errorf("%w: chain not disclosed", ErrAddressUnreadable)

	// ErrAddressBookExists is returned when the account already has an address book.
	ErrAddressBookExists = errors.New("address book already created")
	// ErrAddressBookNotFound is returned when the account has no address book.
	ErrAddressBookNotFound = errors.New("address book does not exist")
	// ErrIdentityAlreadyAdded is returned when the identity is already in the book.
	ErrIdentityAlreadyAdded = errors.New("identity already added to address book")
	// ErrIdentityNotAdded is returned when the identity is not in the book.
	ErrIdentityNotAdded = errors.New("identity not in address book")
	// ErrNicknameTooLong is returned when a nickname exceeds NicknameLengthLimit.
	ErrNicknameTooLong = fmt.Errorf("nickname exceeds %d bytes", NicknameLengthLimit)
	// ErrNicknameTaken is returned when the nickname is already used in the book.
	ErrNicknameTaken = errors.New("nickname already used in address book")
)
