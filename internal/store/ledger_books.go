package store

import (
	"context"
	"database/sql"
	"errors"

	"dotflow/internal/domain"
)

// CreateBook creates an empty address book for owner.
func (l *Ledger) CreateBook(ctx context.Context, owner domain.AccountID) error {
	_, err := l.db.ExecContext(ctx, "INSERT INTO address_books (owner) VALUES (?)", string(owner))
	if isUniqueViolation(err) {
		return domain.ErrAddressBookExists
	}
	return err
}

// DeleteBook removes the book and its entries.
func (l *Ledger) DeleteBook(ctx context.Context, owner domain.AccountID) (bool, error) {
	var removed bool
	err := l.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM address_book_entries WHERE owner = ?", string(owner)); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM address_books WHERE owner = ?", string(owner))
		if err != nil {
			return err
		}
		removed, err = affected(res)
		return err
	})
	return removed, err
}

// HasBook reports whether owner has an address book.
func (l *Ledger) HasBook(ctx context.Context, owner domain.AccountID) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		"SELECT 1 FROM address_books WHERE owner = ?", string(owner)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// AddEntry inserts an identity into the owner's book. A duplicate identity
// maps to ErrIdentityAlreadyAdded and a duplicate nickname to ErrNicknameTaken.
func (l *Ledger) AddEntry(ctx context.Context, e domain.AddressBookEntry) error {
	return l.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM address_book_entries WHERE owner = ? AND identity_id = ?",
			string(e.Owner), uint32(e.Identity)).Scan(&one)
		if err == nil {
			return domain.ErrIdentityAlreadyAdded
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO address_book_entries (owner, identity_id, nickname) VALUES (?, ?, ?)",
			string(e.Owner), uint32(e.Identity), string(e.Nickname))
		if isUniqueViolation(err) {
			return domain.ErrNicknameTaken
		}
		return err
	})
}

// DeleteEntry removes an identity from the owner's book.
func (l *Ledger) DeleteEntry(ctx context.Context, owner domain.AccountID, id domain.IdentityID) (bool, error) {
	res, err := l.db.ExecContext(ctx,
		"DELETE FROM address_book_entries WHERE owner = ? AND identity_id = ?",
		string(owner), uint32(id))
	if err != nil {
		return false, err
	}
	return affected(res)
}

// UpdateNickname changes the alias of an entry. An empty nickname clears it.
func (l *Ledger) UpdateNickname(
	ctx context.Context,
	owner domain.AccountID,
	id domain.IdentityID,
	nickname domain.Nickname,
) (bool, error) {
	res, err := l.db.ExecContext(ctx,
		"UPDATE address_book_entries SET nickname = ? WHERE owner = ? AND identity_id = ?",
		string(nickname), string(owner), uint32(id))
	if isUniqueViolation(err) {
		return false, domain.ErrNicknameTaken
	}
	if err != nil {
		return false, err
	}
	return affected(res)
}

// ListEntries returns the owner's entries ordered by identity.
func (l *Ledger) ListEntries(ctx context.Context, owner domain.AccountID) ([]domain.AddressBookEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT identity_id, nickname FROM address_book_entries WHERE owner = ? ORDER BY identity_id",
		string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AddressBookEntry
	for rows.Next() {
		var (
			id   int64
			nick string
		)
		if err := rows.Scan(&id, &nick); err != nil {
			return nil, err
		}
		out = append(out, domain.AddressBookEntry{
			Owner:    owner,
			Identity: domain.IdentityID(id),
			Nickname: domain.Nickname(nick),
		})
	}
	return out, rows.Err()
}

// LookupNickname resolves an alias in the owner's book.
func (l *Ledger) LookupNickname(
	ctx context.Context,
	owner domain.AccountID,
	nickname domain.Nickname,
) (domain.IdentityID, bool, error) {
	var id int64
	err := l.db.QueryRowContext(ctx,
		"SELECT identity_id FROM address_book_entries WHERE owner = ? AND nickname = ?",
		string(owner), string(nickname)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return domain.IdentityID(id), true, nil
}

var _ domain.AddressBookStore = (*Ledger)(nil)
