package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pravobot/pravobot/internal/bitrix"
)

// TokenStore persists one OAuth credential per portal domain. Writes are
// full replacements; the newest write wins on concurrent refreshes.
type TokenStore struct {
	Pool *pgxpool.Pool
}

var _ bitrix.Store = (*TokenStore)(nil)

func (s *TokenStore) Get(ctx context.Context, domain string) (bitrix.Credential, bool, error) {
	const q = `
		SELECT domain, access_token, refresh_token, expires_at
		FROM bitrix_credentials
		WHERE domain = $1
	`
	var cred bitrix.Credential
	err := s.Pool.QueryRow(ctx, q, domain).Scan(
		&cred.Domain, &cred.AccessToken, &cred.RefreshToken, &cred.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return bitrix.Credential{}, false, nil
	}
	if err != nil {
		return bitrix.Credential{}, false, err
	}
	return cred, true, nil
}

func (s *TokenStore) Put(ctx context.Context, cred bitrix.Credential) error {
	const q = `
		INSERT INTO bitrix_credentials (domain, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (domain) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
	`
	_, err := s.Pool.Exec(ctx, q, cred.Domain, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt)
	return err
}

// Domains lists every domain with a stored credential, for the proactive
// refresh worker.
func (s *TokenStore) Domains(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT domain FROM bitrix_credentials ORDER BY domain`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, err
		}
		out = append(out, domain)
	}
	return out, rows.Err()
}
