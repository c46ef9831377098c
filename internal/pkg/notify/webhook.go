package notify

import (
	"Bandwall/internal/api/config"
	"Bandwall/internal/model"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const headerEventType = "X-Event-Type"

// WebhookNotifier 将新增评论任务推送到下游 webhook，未配置地址时仅记录日志
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
}

func NewWebhookNotifier(cfg config.NotifyConfig) *WebhookNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "bandwall-notifier/1.0")

	return &WebhookNotifier{
		httpClient: client,
		url:        cfg.WebhookURL,
	}
}

func (s *WebhookNotifier) HandleCommentAdded(ctx context.Context, evt *model.CommentAddedEvent) error {
	if s.url == "" {
		log.InfoContext(ctx, "comment added notification",
			"postID", evt.PostID,
			"commentID", evt.CommentID,
			"creator", evt.Creator)
		return nil
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader(headerEventType, model.EventCommentAdded).
		SetBody(evt).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded %d", resp.StatusCode())
	}
	return nil
}
