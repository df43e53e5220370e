package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SettingRepo stores small key/value markers such as the last normalized day.
type SettingRepo interface {
	// All returns every stored setting.
	All(ctx context.Context) (map[string]string, error)

	// Set inserts or overwrites a setting.
	Set(ctx context.Context, key, value string) error
}

// pgSettingRepo is the Postgres implementation of SettingRepo.
type pgSettingRepo struct {
	db db
}

// NewSettingRepo constructs a SettingRepo backed by the provided db connection.
func NewSettingRepo(db db) SettingRepo {
	return &pgSettingRepo{db: db}
}

func (r *pgSettingRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("repo.SettingRepo.All: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("repo.SettingRepo.All: scan: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SettingRepo.All: rows: %w", err)
	}
	return out, nil
}

func (r *pgSettingRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO settings (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("repo.SettingRepo.Set: %w", err)
	}
	return nil
}
