// Package ledger is the public read API over the shared vault.
//
// The server side (NewRouter) exposes identities, encrypted address records
// and the chain registry over HTTP with gin. The client side (Client) reads
// the same endpoints and implements domain.RecordReader, so a counterparty
// can resolve an address from a bundle without direct access to the ledger
// database.
//
// Endpoints:
//
//	GET /v1/identities/:id
//	GET /v1/identities/:id/records
//	GET /v1/identities/:id/records/:chain
//	GET /v1/chains
//	GET /healthz
//	GET /metrics
//
// Errors are JSON bodies {"error": {"code": ..., "message": ...}}. Known
// codes map back to domain sentinels on the client.
package ledger
