package types

import "slices"

// ChainKey is one version of the symmetric key protecting an identity's
// address on a chain. It only ever lives in the owner's keyring or inside a
// bundle handed to a counterparty.
type ChainKey struct {
	Chain   ChainID     `json:"chain"`
	Version KeyVersion  `json:"version"`
	Suite   CipherSuite `json:"suite"`
	Key     []byte      `json:"key"`
}

// Clone returns a deep copy so callers cannot alias keyring memory.
func (k ChainKey) Clone() ChainKey {
	k.Key = append([]byte(nil), k.Key...)
	return k
}

// IdentityKeyBundle is a set of chain keys for one identity. The full bundle
// holds every current key; a disclosed bundle holds a non-empty subset.
type IdentityKeyBundle struct {
	ID       string               `json:"id"`
	Identity IdentityID           `json:"identity"`
	Keys     map[ChainID]ChainKey `json:"keys"`
}

// Chains returns the chain IDs present in the bundle in ascending order.
func (b IdentityKeyBundle) Chains() []ChainID {
	out := make([]ChainID, 0, len(b.Keys))
	for c := range b.Keys {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
