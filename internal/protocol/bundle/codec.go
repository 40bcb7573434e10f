package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
)

const (
	magic         = "DFKB"
	formatVersion = 1

	// ArmorPrefix starts every armored bundle.
	ArmorPrefix = "dfkb1"

	checksumLen = 4
	headerLen   = len(magic) + 1 + 16 + 4 + 2
	entryFixed  = 4 + 4 + 1 + 2
	maxEntries  = 1<<16 - 1
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidBundle, fmt.Sprintf(format, args...))
}

// Marshal returns the binary encoding of b. Entries are written in chain order.
func Marshal(b domain.IdentityKeyBundle) ([]byte, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, fmt.Errorf("bundle id: %w", err)
	}
	if len(b.Keys) > maxEntries {
		return nil, fmt.Errorf("bundle holds %d keys, limit is %d", len(b.Keys), maxEntries)
	}

	out := make([]byte, 0, headerLen+len(b.Keys)*(entryFixed+crypto.KeyBytes))
	out = append(out, magic...)
	out = append(out, formatVersion)
	out = append(out, id[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(b.Identity))
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.Keys)))
	for _, c := range b.Chains() {
		k := b.Keys[c]
		if k.Chain != c {
			return nil, fmt.Errorf("key for chain %s is filed under chain %s", k.Chain, c)
		}
		out = binary.BigEndian.AppendUint32(out, uint32(k.Chain))
		out = binary.BigEndian.AppendUint32(out, uint32(k.Version))
		out = append(out, byte(k.Suite))
		out = binary.BigEndian.AppendUint16(out, uint16(len(k.Key)))
		out = append(out, k.Key...)
	}
	return out, nil
}

// Unmarshal decodes the binary encoding produced by Marshal.
func Unmarshal(data []byte) (domain.IdentityKeyBundle, error) {
	if len(data) < headerLen {
		return domain.IdentityKeyBundle{}, invalid("truncated header")
	}
	if !bytes.Equal(data[:len(magic)], []byte(magic)) {
		return domain.IdentityKeyBundle{}, invalid("bad magic")
	}
	p := len(magic)
	if v := data[p]; v != formatVersion {
		return domain.IdentityKeyBundle{}, invalid("unsupported version %d", v)
	}
	p++
	id, err := uuid.FromBytes(data[p : p+16])
	if err != nil {
		return domain.IdentityKeyBundle{}, invalid("bundle id: %v", err)
	}
	p += 16
	b := domain.IdentityKeyBundle{
		ID:       id.String(),
		Identity: domain.IdentityID(binary.BigEndian.Uint32(data[p:])),
		Keys:     map[domain.ChainID]domain.ChainKey{},
	}
	p += 4
	count := int(binary.BigEndian.Uint16(data[p:]))
	p += 2

	for i := 0; i < count; i++ {
		if len(data)-p < entryFixed {
			crypto.WipeBundle(b)
			return domain.IdentityKeyBundle{}, invalid("truncated entry %d", i)
		}
		k := domain.ChainKey{
			Chain:   domain.ChainID(binary.BigEndian.Uint32(data[p:])),
			Version: domain.KeyVersion(binary.BigEndian.Uint32(data[p+4:])),
			Suite:   domain.CipherSuite(data[p+8]),
		}
		keyLen := int(binary.BigEndian.Uint16(data[p+9:]))
		p += entryFixed

		switch {
		case !k.Suite.Valid():
			crypto.WipeBundle(b)
			return domain.IdentityKeyBundle{}, invalid("entry %d: unknown suite %d", i, uint8(k.Suite))
		case keyLen != crypto.KeyBytes:
			crypto.WipeBundle(b)
			return domain.IdentityKeyBundle{}, invalid("entry %d: key length %d", i, keyLen)
		case len(data)-p < keyLen:
			crypto.WipeBundle(b)
			return domain.IdentityKeyBundle{}, invalid("entry %d: truncated key", i)
		}
		if _, dup := b.Keys[k.Chain]; dup {
			crypto.WipeBundle(b)
			return domain.IdentityKeyBundle{}, invalid("duplicate chain %s", k.Chain)
		}
		k.Key = slices.Clone(data[p : p+keyLen])
		p += keyLen
		b.Keys[k.Chain] = k
	}
	if p != len(data) {
		crypto.WipeBundle(b)
		return domain.IdentityKeyBundle{}, invalid("%d trailing bytes", len(data)-p)
	}
	return b, nil
}

func checksum(payload []byte) []byte {
	sum := blake2b.Sum256(payload)
	return sum[:checksumLen]
}

// Armor returns the text form of b.
func Armor(b domain.IdentityKeyBundle) (string, error) {
	payload, err := Marshal(b)
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(payload)
	framed := append(payload, checksum(payload)...)
	defer crypto.Wipe(framed)
	return ArmorPrefix + base58.Encode(framed), nil
}

// Dearmor parses the text form produced by Armor. Surrounding whitespace is ignored.
func Dearmor(s string) (domain.IdentityKeyBundle, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, ArmorPrefix) {
		return domain.IdentityKeyBundle{}, invalid("missing %q prefix", ArmorPrefix)
	}
	framed, err := base58.Decode(s[len(ArmorPrefix):])
	if err != nil {
		return domain.IdentityKeyBundle{}, invalid("base58: %v", err)
	}
	defer crypto.Wipe(framed)
	if len(framed) < checksumLen {
		return domain.IdentityKeyBundle{}, invalid("too short")
	}
	payload, sum := framed[:len(framed)-checksumLen], framed[len(framed)-checksumLen:]
	if !bytes.Equal(checksum(payload), sum) {
		return domain.IdentityKeyBundle{}, invalid("checksum mismatch")
	}
	return Unmarshal(payload)
}
