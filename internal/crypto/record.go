package crypto

import (
	"dotflow/internal/domain"
)

// SealAddress encrypts a plaintext address under key for the vault slot
// (id, key.Chain). The returned record carries no timestamp.
func SealAddress(id domain.IdentityID, key domain.ChainKey, address []byte) (domain.AddressRecord, error) {
	ad := AddressAD(id, key.Chain, key.Version, key.Suite)
	ct, nonce, err := Encrypt(key.Suite, key.Key, address, ad)
	if err != nil {
		return domain.AddressRecord{}, err
	}
	return domain.AddressRecord{
		Identity:   id,
		Chain:      key.Chain,
		Ciphertext: ct,
		Nonce:      nonce,
		KeyVersion: key.Version,
		Suite:      key.Suite,
	}, nil
}

// OpenAddress decrypts rec with key. A key whose version differs from the
// record's fails with domain.ErrKeyVersionStale before any decryption is tried.
func OpenAddress(rec domain.AddressRecord, key domain.ChainKey) ([]byte, error) {
	if key.Chain != rec.Chain {
		return nil, domain.ErrChainNotDisclosed
	}
	if key.Version != rec.KeyVersion {
		return nil, domain.ErrKeyVersionStale
	}
	ad := AddressAD(rec.Identity, rec.Chain, rec.KeyVersion, rec.Suite)
	return Decrypt(rec.Suite, key.Key, rec.Ciphertext, rec.Nonce, ad)
}
