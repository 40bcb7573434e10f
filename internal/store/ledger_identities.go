package store

import (
	"context"
	"database/sql"
	"errors"

	"dotflow/internal/domain"
)

const identityColumns = "id, owner, recovery_account"

func scanIdentity(row interface{ Scan(...any) error }) (domain.Identity, error) {
	var (
		id       int64
		owner    string
		recovery string
	)
	if err := row.Scan(&id, &owner, &recovery); err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		ID:              domain.IdentityID(id),
		Owner:           domain.AccountID(owner),
		RecoveryAccount: domain.AccountID(recovery),
	}, nil
}

// CreateIdentity allocates the next identity ID and assigns it to owner.
func (l *Ledger) CreateIdentity(ctx context.Context, owner domain.AccountID) (domain.Identity, error) {
	ident := domain.Identity{Owner: owner}
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx, seqIdentities)
		if err != nil {
			return err
		}
		ident.ID = domain.IdentityID(id)
		_, err = tx.ExecContext(ctx,
			"INSERT INTO identities (id, owner) VALUES (?, ?)", id, string(owner))
		return err
	})
	if isUniqueViolation(err) {
		return domain.Identity{}, domain.ErrAlreadyIdentityOwner
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return ident, nil
}

// LoadIdentity returns the identity with the given ID.
func (l *Ledger) LoadIdentity(ctx context.Context, id domain.IdentityID) (domain.Identity, bool, error) {
	row := l.db.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE id = ?", uint32(id))
	return identityResult(scanIdentity(row))
}

// IdentityOf returns the identity owned by owner.
func (l *Ledger) IdentityOf(ctx context.Context, owner domain.AccountID) (domain.Identity, bool, error) {
	row := l.db.QueryRowContext(ctx,
		"SELECT "+identityColumns+" FROM identities WHERE owner = ?", string(owner))
	return identityResult(scanIdentity(row))
}

func identityResult(ident domain.Identity, err error) (domain.Identity, bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, err
	}
	return ident, true, nil
}

// SetRecoveryAccount stores the account allowed to transfer the identity.
func (l *Ledger) SetRecoveryAccount(ctx context.Context, id domain.IdentityID, account domain.AccountID) error {
	res, err := l.db.ExecContext(ctx,
		"UPDATE identities SET recovery_account = ? WHERE id = ?", string(account), uint32(id))
	if err != nil {
		return err
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// TransferOwnership moves the identity to newOwner.
func (l *Ledger) TransferOwnership(ctx context.Context, id domain.IdentityID, newOwner domain.AccountID) error {
	res, err := l.db.ExecContext(ctx,
		"UPDATE identities SET owner = ? WHERE id = ?", string(newOwner), uint32(id))
	if isUniqueViolation(err) {
		return domain.ErrAlreadyIdentityOwner
	}
	if err != nil {
		return err
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// DeleteIdentity removes the identity and, through the foreign key cascade,
// every address record it owns.
func (l *Ledger) DeleteIdentity(ctx context.Context, id domain.IdentityID) (bool, error) {
	var removed bool
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM address_records WHERE identity_id = ?", uint32(id)); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM identities WHERE id = ?", uint32(id))
		if err != nil {
			return err
		}
		removed, err = affected(res)
		return err
	})
	return removed, err
}

var _ domain.IdentityStore = (*Ledger)(nil)
