package repository

import (
	"context"
	"database/sql"
)

// PostgresCarriersRepo 承保公司Repository实现
type PostgresCarriersRepo struct {
	db *sql.DB
}

func NewPostgresCarriersRepo(db *sql.DB) *PostgresCarriersRepo {
	return &PostgresCarriersRepo{db: db}
}

// UpsertByName 按自然键 company_name 原子 upsert
func (r *PostgresCarriersRepo) UpsertByName(ctx context.Context, companyName string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO carriers (company_name)
		 VALUES ($1)
		 ON CONFLICT (company_name)
		 DO UPDATE SET company_name = EXCLUDED.company_name
		 RETURNING carrier_id::text`,
		companyName,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
