package addressbook_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotflow/internal/domain"
	"dotflow/internal/services/addressbook"
	"dotflow/internal/services/registry"
	"dotflow/internal/store"
)

func setup(t *testing.T) (*addressbook.Service, domain.IdentityID, domain.IdentityID) {
	t.Helper()
	ctx := context.Background()
	l, err := store.OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	reg := registry.New(l, l, "", nil, nil)
	bob, err := reg.CreateIdentity(ctx, "bob")
	require.NoError(t, err)
	carol, err := reg.CreateIdentity(ctx, "carol")
	require.NoError(t, err)
	return addressbook.New(l, reg, nil, nil), bob.ID, carol.ID
}

func TestBookLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	has, err := svc.HasBook(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, has)

	assert.ErrorIs(t, svc.RemoveBook(ctx, "alice"), domain.ErrAddressBookNotFound)
	require.NoError(t, svc.CreateBook(ctx, "alice"))
	assert.ErrorIs(t, svc.CreateBook(ctx, "alice"), domain.ErrAddressBookExists)

	has, err = svc.HasBook(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, svc.RemoveBook(ctx, "alice"))
	has, err = svc.HasBook(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEntries(t *testing.T) {
	ctx := context.Background()
	svc, bob, carol := setup(t)

	assert.ErrorIs(t, svc.AddIdentity(ctx, "alice", bob, "bob"), domain.ErrAddressBookNotFound)
	require.NoError(t, svc.CreateBook(ctx, "alice"))

	require.NoError(t, svc.AddIdentity(ctx, "alice", bob, "bob"))
	require.NoError(t, svc.AddIdentity(ctx, "alice", carol, ""))
	assert.ErrorIs(t, svc.AddIdentity(ctx, "alice", bob, ""), domain.ErrIdentityAlreadyAdded)
	assert.ErrorIs(t, svc.AddIdentity(ctx, "alice", 99, ""), domain.ErrIdentityNotFound)
	assert.ErrorIs(t, svc.AddIdentity(ctx, "alice", 99, domain.Nickname(strings.Repeat("n", 17))),
		domain.ErrNicknameTooLong)

	id, err := svc.Lookup(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, bob, id)
	_, err = svc.Lookup(ctx, "alice", "")
	assert.ErrorIs(t, err, domain.ErrIdentityNotAdded)

	assert.ErrorIs(t, svc.UpdateNickname(ctx, "alice", carol, "bob"), domain.ErrNicknameTaken)
	require.NoError(t, svc.UpdateNickname(ctx, "alice", carol, "cc"))
	assert.ErrorIs(t, svc.UpdateNickname(ctx, "alice", 99, "x"), domain.ErrIdentityNotAdded)

	entries, err := svc.Entries(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []domain.AddressBookEntry{
		{Owner: "alice", Identity: bob, Nickname: "bob"},
		{Owner: "alice", Identity: carol, Nickname: "cc"},
	}, entries)

	require.NoError(t, svc.RemoveIdentity(ctx, "alice", bob))
	assert.ErrorIs(t, svc.RemoveIdentity(ctx, "alice", bob), domain.ErrIdentityNotAdded)
	_, err = svc.Lookup(ctx, "alice", "bob")
	assert.ErrorIs(t, err, domain.ErrIdentityNotAdded)
}
