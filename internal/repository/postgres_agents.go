package repository

import (
	"context"
	"database/sql"
)

// PostgresAgentsRepo 代理人Repository实现
type PostgresAgentsRepo struct {
	db *sql.DB
}

func NewPostgresAgentsRepo(db *sql.DB) *PostgresAgentsRepo {
	return &PostgresAgentsRepo{db: db}
}

// UpsertByName 按自然键 agent_name 原子 upsert
func (r *PostgresAgentsRepo) UpsertByName(ctx context.Context, agentName string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO agents (agent_name)
		 VALUES ($1)
		 ON CONFLICT (agent_name)
		 DO UPDATE SET agent_name = EXCLUDED.agent_name
		 RETURNING agent_id::text`,
		agentName,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
