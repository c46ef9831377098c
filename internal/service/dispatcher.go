package service

import (
	"Bandwall/internal/model"
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	ChannelEventPublisher = "event_publisher"
	ChannelWorkQueue      = "work_queue"
)

// EventPublisher 领域事件发布，key 用于分区保序
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload []byte) error
}

// WorkQueue 异步任务队列
type WorkQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}

// EventDispatcher 将已持久化的变更发往事件总线与任务队列
// 两个通道并行投递，各自受同一超时约束，失败记录为 downstream_error
type EventDispatcher struct {
	publisher EventPublisher
	queue     WorkQueue
	timeout   time.Duration
	now       func() time.Time
}

func NewEventDispatcher(publisher EventPublisher, queue WorkQueue, timeout time.Duration) *EventDispatcher {
	return &EventDispatcher{
		publisher: publisher,
		queue:     queue,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (d *EventDispatcher) PostCreated(ctx context.Context, post *model.Post) error {
	evt := &model.PostCreatedEvent{
		PostID:     post.ID,
		Caption:    post.Caption,
		OccurredAt: d.now(),
	}
	return d.dispatch(ctx, model.EventPostCreated, post.ID, evt, false)
}

func (d *EventDispatcher) CommentAdded(ctx context.Context, comment *model.Comment) error {
	evt := &model.CommentAddedEvent{
		PostID:     comment.PostID,
		CommentID:  comment.ID,
		Content:    comment.Content,
		Creator:    comment.Creator,
		OccurredAt: d.now(),
	}
	return d.dispatch(ctx, model.EventCommentAdded, comment.PostID, evt, true)
}

func (d *EventDispatcher) dispatch(ctx context.Context, eventType, key string, evt any, enqueue bool) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.ErrorContext(ctx, "marshal event error", "event", eventType, "err", err)
		return err
	}

	// 主流程已成功，投递不随请求取消
	dctx := context.WithoutCancel(ctx)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(dctx, d.timeout)
		defer cancel()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	deliver := func(channel string, fn func() error) {
		defer wg.Done()
		if err := fn(); err != nil {
			derr := downstreamError(channel, err)
			log.WarnContext(ctx, "dispatch event error",
				"kind", KindDownstream,
				"channel", channel,
				"event", eventType,
				"key", key,
				"err", err)
			mu.Lock()
			errs = append(errs, derr)
			mu.Unlock()
		}
	}

	if d.publisher != nil {
		wg.Add(1)
		go deliver(ChannelEventPublisher, func() error {
			return d.publisher.Publish(dctx, eventType, key, payload)
		})
	}
	if enqueue && d.queue != nil {
		wg.Add(1)
		go deliver(ChannelWorkQueue, func() error {
			return d.queue.Enqueue(dctx, payload)
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}
