package store

import (
	"fmt"
	"slices"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
)

// keyring is the owner's chain keys plus the highest version ever issued per
// (identity, chain). The issued map outlives revocation so versions never repeat.
type keyring struct {
	Keys   map[string]domain.ChainKey   `json:"keys"`
	Issued map[string]domain.KeyVersion `json:"issued"`
}

func newKeyring() *keyring {
	return &keyring{
		Keys:   map[string]domain.ChainKey{},
		Issued: map[string]domain.KeyVersion{},
	}
}

func slot(id domain.IdentityID, chain domain.ChainID) string {
	return fmt.Sprintf("%d/%d", id, chain)
}

func (k *keyring) save(id domain.IdentityID, key domain.ChainKey) {
	s := slot(id, key.Chain)
	k.Keys[s] = key.Clone()
	if v, ok := k.Issued[s]; !ok || key.Version > v {
		k.Issued[s] = key.Version
	}
}

func (k *keyring) load(id domain.IdentityID, chain domain.ChainID) (domain.ChainKey, bool) {
	key, ok := k.Keys[slot(id, chain)]
	if !ok {
		return domain.ChainKey{}, false
	}
	return key.Clone(), true
}

func (k *keyring) remove(id domain.IdentityID, chain domain.ChainID) bool {
	s := slot(id, chain)
	key, ok := k.Keys[s]
	if !ok {
		return false
	}
	crypto.Wipe(key.Key)
	delete(k.Keys, s)
	return true
}

func (k *keyring) list(id domain.IdentityID) []domain.ChainKey {
	prefix := fmt.Sprintf("%d/", id)
	var out []domain.ChainKey
	for s, key := range k.Keys {
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			out = append(out, key.Clone())
		}
	}
	slices.SortFunc(out, func(a, b domain.ChainKey) int { return int(a.Chain) - int(b.Chain) })
	return out
}

func (k *keyring) lastVersion(id domain.IdentityID, chain domain.ChainID) (domain.KeyVersion, bool) {
	v, ok := k.Issued[slot(id, chain)]
	return v, ok
}
