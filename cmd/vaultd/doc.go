// Package main runs vaultd, the read-only HTTP gateway over a dotflow ledger.
// Counterparties holding a disclosed bundle fetch ciphertext records from it
// and decrypt locally; the gateway never sees keys or plaintext.
//
// HTTP API
//
//	GET /healthz
//	    Ledger liveness.
//
//	GET /metrics
//	    Prometheus metrics.
//
//	GET /v1/chains
//	    Supported chains with their RPC URLs, account type and cipher suite.
//
//	GET /v1/identities/{id}
//	    Owner and recovery account of an identity.
//
//	GET /v1/identities/{id}/records
//	    Every address record of an identity.
//
//	GET /v1/identities/{id}/records/{chain}
//	    One address record.
//
// Behaviour
//
//   - Errors are JSON: {"error":{"code":"...","message":"..."}}.
//   - Requests are rate limited per client IP; excess requests get 429.
//   - --chains seeds an empty registry from a YAML file on startup.
//   - SIGINT/SIGTERM drain in-flight requests before exit.
package main
