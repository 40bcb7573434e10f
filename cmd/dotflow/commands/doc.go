// Package commands defines the dotflow CLI and wires dependencies for subcommands.
//
// Commands
//
//   - identity     Create, show, transfer, recover or remove your identity
//   - address      Register, rotate, refresh, remove, get or list chain addresses
//   - fingerprint  Print the fingerprint of a chain key for out-of-band checks
//   - disclose     Compose an armored key bundle for a subset of chains
//   - resolve      Decrypt a counterparty's address with a bundle they gave you
//   - chain        Administer the chain registry
//   - book         Manage your address book
//
// # Implementation
//
// The root command loads the configuration (flags, DOTFLOW_* environment and
// $HOME/.dotflow/config.yaml) and builds the dependency graph before any
// subcommand runs. Commands that touch chain keys require a keyring
// passphrase; mutating commands act as --account.
package commands
