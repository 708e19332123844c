package repository

import (
	"context"
	"database/sql"
)

// PostgresLOBsRepo 保单类别Repository实现
type PostgresLOBsRepo struct {
	db *sql.DB
}

func NewPostgresLOBsRepo(db *sql.DB) *PostgresLOBsRepo {
	return &PostgresLOBsRepo{db: db}
}

// UpsertByName 按自然键 category_name 原子 upsert
func (r *PostgresLOBsRepo) UpsertByName(ctx context.Context, categoryName string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO lobs (category_name)
		 VALUES ($1)
		 ON CONFLICT (category_name)
		 DO UPDATE SET category_name = EXCLUDED.category_name
		 RETURNING lob_id::text`,
		categoryName,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
