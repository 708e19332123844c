package service

import (
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"policy-data/internal/importer"
)

// WebhookNotifier 导入运行结束后把终态事件 POST 到配置的回调地址
// 与事件流一样是 fire-and-forget：失败只记日志
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
}

// NewWebhookNotifier 创建回调客户端
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &WebhookNotifier{
		httpClient: client,
		url:        url,
		logger:     logger,
	}
}

// NotifyTerminal 上报终态事件；非终态事件忽略
func (n *WebhookNotifier) NotifyTerminal(event importer.Event) {
	if !event.Terminal() {
		return
	}

	resp, err := n.httpClient.R().
		SetBody(event).
		Post(n.url)
	if err != nil {
		n.logger.Warn("Import webhook delivery failed",
			zap.String("url", n.url),
			zap.String("run_id", event.RunID),
			zap.Error(err),
		)
		return
	}
	if resp.IsError() {
		n.logger.Warn("Import webhook returned error status",
			zap.String("url", n.url),
			zap.String("run_id", event.RunID),
			zap.Int("status", resp.StatusCode()),
		)
	}
}
