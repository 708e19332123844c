package domain

import (
	"time"
)

// ScheduledMessage 定时消息领域模型（对应 scheduled_messages 表）
// 到点后由调度器写入，insertedAt 由 DB 默认值填充
type ScheduledMessage struct {
	MessageID   string    `db:"message_id"`
	Message     string    `db:"message"`      // NOT NULL
	ScheduledAt time.Time `db:"scheduled_at"` // NOT NULL
	InsertedAt  time.Time `db:"inserted_at"`  // default CURRENT_TIMESTAMP
}

func (m *ScheduledMessage) ToJSON() map[string]any {
	return map[string]any{
		"message_id":   m.MessageID,
		"message":      m.Message,
		"scheduled_at": m.ScheduledAt.Format(time.RFC3339),
		"inserted_at":  m.InsertedAt.Format(time.RFC3339),
	}
}
