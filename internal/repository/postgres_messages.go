package repository

import (
	"context"
	"database/sql"

	"policy-data/internal/domain"
)

// PostgresMessagesRepo 定时消息Repository实现
type PostgresMessagesRepo struct {
	db *sql.DB
}

func NewPostgresMessagesRepo(db *sql.DB) *PostgresMessagesRepo {
	return &PostgresMessagesRepo{db: db}
}

func (r *PostgresMessagesRepo) Insert(ctx context.Context, msg *domain.ScheduledMessage) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO scheduled_messages (message, scheduled_at)
		 VALUES ($1, $2)
		 RETURNING message_id::text`,
		msg.Message,
		msg.ScheduledAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
