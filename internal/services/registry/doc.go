// Package registry owns identities and the chain registry.
//
// Every account may own at most one identity. Ownership can be handed over
// by the owner or by a recovery account the owner nominated. The chain
// registry is administered by a single configured admin account and can be
// seeded from a YAML file at startup.
package registry
