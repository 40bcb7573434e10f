// Package app wires application dependencies for the dotflow binaries.
//
// It loads Config through viper (file, DOTFLOW_* environment, bound flags),
// builds the ledger, keyring and services from it, and exposes them via the
// Wire struct for commands and the vault gateway to use.
package app
