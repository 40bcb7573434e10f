// Package disclosure composes restricted key bundles for counterparties and
// resolves addresses with the bundles they were given.
//
// A bundle grants read access to exactly the chains it names. Resolution
// checks the bundle against the vault record before decrypting: a bundle for
// another identity or without the chain, a key whose version no longer
// matches the record, and a failed authentication tag all surface as
// domain.ErrAddressUnreadable.
package disclosure
