// Package keys is the owner-side key composer.
//
// It creates, rotates and revokes the independent random key protecting each
// (identity, chain) address and assembles those keys into bundles. Versions
// are strictly increasing per pair and never reused, even across revocation.
// Keys only leave this package as copies.
package keys
