package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"policy-data/internal/importer"
)

// StreamPublisher 把导入运行事件发布到 Redis Streams，供外部消费者订阅
// fire-and-forget：发布失败只记日志，绝不影响导入运行本身
type StreamPublisher struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

func NewStreamPublisher(client *redis.Client, stream string, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream, logger: logger}
}

// Publish XADD 一条事件（JSON 序列化后随时间戳写入）
func (p *StreamPublisher) Publish(ctx context.Context, event importer.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Failed to marshal import event", zap.Error(err))
		return
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		p.logger.Warn("Failed to publish import event to stream",
			zap.String("stream", p.stream),
			zap.Error(err),
		)
	}
}
