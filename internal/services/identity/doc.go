// Package identity is the operation surface of dotflow.
//
// It composes the registry, key composer, cipher engine, vault and disclosure
// services into the operations owners and counterparties call: register,
// rotate, refresh and remove addresses, read ciphertext, compose disclosures
// and resolve addresses. Operations that change both the owner's keyring and
// the vault are all-or-nothing: a failed vault write undoes the key change.
package identity
