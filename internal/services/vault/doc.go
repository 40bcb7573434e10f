// Package vault is the public address vault: at most one encrypted address
// record per (identity, chain).
//
// Only the identity owner may write or remove records; anyone may read them.
// The vault never handles plaintext addresses or keys.
package vault
