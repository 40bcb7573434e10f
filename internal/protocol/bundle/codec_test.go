package bundle_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/crypto"
	"dotflow/internal/domain"
	"dotflow/internal/protocol/bundle"
)

func sampleBundle(t *testing.T) domain.IdentityKeyBundle {
	t.Helper()
	b := domain.IdentityKeyBundle{
		ID:       uuid.NewString(),
		Identity: 42,
		Keys:     map[domain.ChainID]domain.ChainKey{},
	}
	for i, suite := range []domain.CipherSuite{domain.SuiteAES256GCM, domain.SuiteXChaCha20Poly1305} {
		raw, err := crypto.GenerateKey(suite)
		require.NoError(t, err)
		c := domain.ChainID(i * 7)
		b.Keys[c] = domain.ChainKey{Chain: c, Version: domain.KeyVersion(i + 3), Suite: suite, Key: raw}
	}
	return b
}

func TestArmorRoundTrip(t *testing.T) {
	b := sampleBundle(t)
	text, err := bundle.Armor(b)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, bundle.ArmorPrefix))

	got, err := bundle.Dearmor("  " + text + "\n")
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestDearmorDetectsTypos(t *testing.T) {
	text, err := bundle.Armor(sampleBundle(t))
	require.NoError(t, err)

	// Swap one base58 character for a different valid one.
	i := len(text) - 10
	repl := byte('2')
	if text[i] == repl {
		repl = '3'
	}
	typo := text[:i] + string(repl) + text[i+1:]

	_, err = bundle.Dearmor(typo)
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)

	_, err = bundle.Dearmor("xyz" + text[len(bundle.ArmorPrefix):])
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)

	_, err = bundle.Dearmor(bundle.ArmorPrefix + "0OIl")
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	raw, err := bundle.Marshal(sampleBundle(t))
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":     nil,
		"truncated": raw[:len(raw)-1],
		"trailing":  append(append([]byte(nil), raw...), 0),
		"magic":     append([]byte("XXXX"), raw[4:]...),
		"version":   append(append([]byte(nil), raw[:4]...), append([]byte{9}, raw[5:]...)...),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := bundle.Unmarshal(data)
			assert.ErrorIs(t, err, domain.ErrInvalidBundle)
		})
	}
}

func TestUnmarshalRejectsBadEntries(t *testing.T) {
	b := sampleBundle(t)
	raw, err := bundle.Marshal(b)
	require.NoError(t, err)

	// First entry starts after the 27-byte header; its suite byte is at +8.
	badSuite := append([]byte(nil), raw...)
	badSuite[27+8] = 0xee
	_, err = bundle.Unmarshal(badSuite)
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)

	short := b
	short.Keys = map[domain.ChainID]domain.ChainKey{
		1: {Chain: 1, Suite: domain.SuiteAES256GCM, Key: []byte{1, 2, 3}},
	}
	raw, err = bundle.Marshal(short)
	require.NoError(t, err)
	_, err = bundle.Unmarshal(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidBundle)
}

func TestMarshalRejectsMisfiledKey(t *testing.T) {
	b := sampleBundle(t)
	k := b.Keys[0]
	delete(b.Keys, 0)
	b.Keys[99] = k
	_, err := bundle.Marshal(b)
	assert.Error(t, err)

	b = sampleBundle(t)
	b.ID = "not-a-uuid"
	_, err = bundle.Marshal(b)
	assert.Error(t, err)
}
