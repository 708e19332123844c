package repository

import (
	"context"
	"database/sql"
)

// PostgresAccountsRepo 账户Repository实现
type PostgresAccountsRepo struct {
	db *sql.DB
}

func NewPostgresAccountsRepo(db *sql.DB) *PostgresAccountsRepo {
	return &PostgresAccountsRepo{db: db}
}

// UpsertByName 按自然键 account_name 原子 upsert
// user_id 每次覆盖：同名账户的归属用户由最后一行决定
func (r *PostgresAccountsRepo) UpsertByName(ctx context.Context, accountName, userID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO accounts (account_name, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (account_name)
		 DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING account_id::text`,
		accountName,
		userID,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
