package job

import (
	"Bandwall/internal/model"
	"Bandwall/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	initialRetryInterval = 100 * time.Millisecond
	maxRetryInterval     = 5 * time.Second
	dequeueErrorPause    = time.Second
)

// TaskQueue 可靠队列
type TaskQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)
	Ack(ctx context.Context, payload []byte) error
	DeadLetter(ctx context.Context, payload []byte) error
	Recover(ctx context.Context) (int, error)
}

// TaskHandler 处理新增评论任务
type TaskHandler interface {
	HandleCommentAdded(ctx context.Context, evt *model.CommentAddedEvent) error
}

// CommentTaskWorker 消费评论任务，失败按指数退避重试，超过次数进入死信
type CommentTaskWorker struct {
	queue        TaskQueue
	handler      TaskHandler
	blockTimeout time.Duration
	maxAttempts  int
	baseInterval time.Duration
}

func NewCommentTaskWorker(queue TaskQueue, handler TaskHandler, blockTimeout time.Duration, maxAttempts int) *CommentTaskWorker {
	return &CommentTaskWorker{
		queue:        queue,
		handler:      handler,
		blockTimeout: blockTimeout,
		maxAttempts:  max(maxAttempts, 1),
		baseInterval: initialRetryInterval,
	}
}

// Run 阻塞消费直到 ctx 结束
func (s *CommentTaskWorker) Run(ctx context.Context) error {
	recovered, err := s.queue.Recover(ctx)
	if err != nil {
		log.ErrorContext(ctx, "recover processing tasks error", "err", err)
	} else if recovered > 0 {
		log.InfoContext(ctx, "requeued unfinished tasks", "count", recovered)
	}

	log.Info("comment task worker started")
	for {
		if ctx.Err() != nil {
			log.Info("comment task worker stopped")
			return nil
		}

		payload, err := s.queue.Dequeue(ctx, s.blockTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.ErrorContext(ctx, "dequeue task error", "err", err)
			sleepCtx(ctx, dequeueErrorPause)
			continue
		}
		if payload == nil {
			continue
		}
		s.process(ctx, payload)
	}
}

// process 处理单个任务；ctx 结束时任务留在处理中列表，下次启动时恢复
func (s *CommentTaskWorker) process(ctx context.Context, payload []byte) {
	tctx := logger.WithTraceID(ctx, "task-comment-"+uuid.NewString())
	bg := context.WithoutCancel(tctx)

	var evt model.CommentAddedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		log.ErrorContext(tctx, "unmarshal comment task error", "err", err)
		if err := s.queue.DeadLetter(bg, payload); err != nil {
			log.ErrorContext(tctx, "move task to dead letter error", "err", err)
		}
		return
	}

	retryInterval := s.baseInterval
	for attempt := 1; ; attempt++ {
		err := s.handler.HandleCommentAdded(tctx, &evt)
		if err == nil {
			if err := s.queue.Ack(bg, payload); err != nil {
				log.ErrorContext(tctx, "ack task error", "commentID", evt.CommentID, "err", err)
			}
			return
		}

		log.WarnContext(tctx, "handle comment task error", "commentID", evt.CommentID, "attempt", attempt, "err", err)
		if attempt >= s.maxAttempts {
			log.ErrorContext(tctx, "comment task exhausted retries", "commentID", evt.CommentID, "attempts", attempt)
			if err := s.queue.DeadLetter(bg, payload); err != nil {
				log.ErrorContext(tctx, "move task to dead letter error", "err", err)
			}
			return
		}

		if !sleepCtx(ctx, retryInterval) {
			return
		}
		retryInterval *= 2
		if retryInterval > maxRetryInterval {
			retryInterval = maxRetryInterval
		}
	}
}

// sleepCtx 等待 d，ctx 先结束返回 false
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
