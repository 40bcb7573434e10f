package store

import (
	"context"
	"database/sql"
	"errors"

	"dotflow/internal/domain"
)

const recordColumns = "identity_id, chain_id, ciphertext, nonce, key_version, suite, updated_at"

func scanRecord(row interface{ Scan(...any) error }) (domain.AddressRecord, error) {
	var (
		rec            domain.AddressRecord
		id, chain, ver int64
		suite          int64
	)
	if err := row.Scan(&id, &chain, &rec.Ciphertext, &rec.Nonce, &ver, &suite, &rec.UpdatedAt); err != nil {
		return domain.AddressRecord{}, err
	}
	rec.Identity = domain.IdentityID(id)
	rec.Chain = domain.ChainID(chain)
	rec.KeyVersion = domain.KeyVersion(ver)
	rec.Suite = domain.CipherSuite(suite)
	return rec, nil
}

// PutRecord inserts or replaces the record for (identity, chain) in a single
// statement, so readers observe either the old or the new record.
func (l *Ledger) PutRecord(ctx context.Context, rec domain.AddressRecord) error {
	_, err := l.db.ExecContext(ctx, `
INSERT INTO address_records (`+recordColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (identity_id, chain_id) DO UPDATE SET
    ciphertext  = excluded.ciphertext,
    nonce       = excluded.nonce,
    key_version = excluded.key_version,
    suite       = excluded.suite,
    updated_at  = excluded.updated_at`,
		uint32(rec.Identity), uint32(rec.Chain), rec.Ciphertext, rec.Nonce,
		uint32(rec.KeyVersion), uint8(rec.Suite), rec.UpdatedAt,
	)
	return err
}

// LoadRecord returns the record for (identity, chain).
func (l *Ledger) LoadRecord(
	ctx context.Context,
	id domain.IdentityID,
	chain domain.ChainID,
) (domain.AddressRecord, bool, error) {
	row := l.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM address_records WHERE identity_id = ? AND chain_id = ?",
		uint32(id), uint32(chain))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AddressRecord{}, false, nil
	}
	if err != nil {
		return domain.AddressRecord{}, false, err
	}
	return rec, true, nil
}

// SetKeyVersion updates key_version and updated_at of an existing record in
// one statement.
func (l *Ledger) SetKeyVersion(
	ctx context.Context,
	id domain.IdentityID,
	chain domain.ChainID,
	version domain.KeyVersion,
	updatedAt int64,
) (bool, error) {
	res, err := l.db.ExecContext(ctx,
		"UPDATE address_records SET key_version = ?, updated_at = ? WHERE identity_id = ? AND chain_id = ?",
		uint32(version), updatedAt, uint32(id), uint32(chain))
	if err != nil {
		return false, err
	}
	return affected(res)
}

// DeleteRecord removes the record for (identity, chain).
func (l *Ledger) DeleteRecord(ctx context.Context, id domain.IdentityID, chain domain.ChainID) (bool, error) {
	res, err := l.db.ExecContext(ctx,
		"DELETE FROM address_records WHERE identity_id = ? AND chain_id = ?",
		uint32(id), uint32(chain))
	if err != nil {
		return false, err
	}
	return affected(res)
}

// ListRecords returns every record of an identity ordered by chain.
func (l *Ledger) ListRecords(ctx context.Context, id domain.IdentityID) ([]domain.AddressRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM address_records WHERE identity_id = ? ORDER BY chain_id",
		uint32(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AddressRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ domain.RecordStore = (*Ledger)(nil)
