package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"dotflow/internal/domain"
)

const chainColumns = "id, rpc_urls, account_type, suite"

func scanChain(row interface{ Scan(...any) error }) (domain.ChainInfo, error) {
	var (
		id, suite int64
		urls      string
		acct      string
	)
	if err := row.Scan(&id, &urls, &acct, &suite); err != nil {
		return domain.ChainInfo{}, err
	}
	info := domain.ChainInfo{
		ID:          domain.ChainID(id),
		AccountType: domain.AccountType(acct),
		Suite:       domain.CipherSuite(suite),
	}
	if err := json.Unmarshal([]byte(urls), &info.RPCURLs); err != nil {
		return domain.ChainInfo{}, err
	}
	return info, nil
}

func encodeURLs(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	return string(b), err
}

// AddChain registers a chain under the next chain ID. info.ID is ignored.
func (l *Ledger) AddChain(ctx context.Context, info domain.ChainInfo) (domain.ChainID, error) {
	urls, err := encodeURLs(info.RPCURLs)
	if err != nil {
		return 0, err
	}
	var id uint32
	err = l.withTx(ctx, func(tx *sql.Tx) error {
		id, err = nextID(ctx, tx, seqChains)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO chains ("+chainColumns+") VALUES (?, ?, ?, ?)",
			id, urls, string(info.AccountType), uint8(info.Suite))
		return err
	})
	if err != nil {
		return 0, err
	}
	return domain.ChainID(id), nil
}

// UpdateChain overwrites the stored chain info for info.ID.
func (l *Ledger) UpdateChain(ctx context.Context, info domain.ChainInfo) (bool, error) {
	urls, err := encodeURLs(info.RPCURLs)
	if err != nil {
		return false, err
	}
	res, err := l.db.ExecContext(ctx,
		"UPDATE chains SET rpc_urls = ?, account_type = ?, suite = ? WHERE id = ?",
		urls, string(info.AccountType), uint8(info.Suite), uint32(info.ID))
	if err != nil {
		return false, err
	}
	return affected(res)
}

// RemoveChain deletes a chain from the registry.
func (l *Ledger) RemoveChain(ctx context.Context, id domain.ChainID) (bool, error) {
	res, err := l.db.ExecContext(ctx, "DELETE FROM chains WHERE id = ?", uint32(id))
	if err != nil {
		return false, err
	}
	return affected(res)
}

// LoadChain returns the registered chain info.
func (l *Ledger) LoadChain(ctx context.Context, id domain.ChainID) (domain.ChainInfo, bool, error) {
	row := l.db.QueryRowContext(ctx,
		"SELECT "+chainColumns+" FROM chains WHERE id = ?", uint32(id))
	info, err := scanChain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ChainInfo{}, false, nil
	}
	if err != nil {
		return domain.ChainInfo{}, false, err
	}
	return info, true, nil
}

// ListChains returns all registered chains ordered by ID.
func (l *Ledger) ListChains(ctx context.Context) ([]domain.ChainInfo, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT "+chainColumns+" FROM chains ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChainInfo
	for rows.Next() {
		info, err := scanChain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

var _ domain.ChainStore = (*Ledger)(nil)
