// Package domain defines core data models, sentinel errors and interfaces
// shared across the app. It contains plain types (ledger/keyring state) and
// contracts (interfaces) only.
package domain
