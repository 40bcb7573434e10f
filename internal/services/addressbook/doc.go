// Package addressbook keeps a per-account list of known identities with
// optional nicknames, so a user can refer to a counterparty by alias.
package addressbook
