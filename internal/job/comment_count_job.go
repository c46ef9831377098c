package job

import (
	"Bandwall/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// DirtySet 待对账帖子集合
type DirtySet interface {
	Claim(ctx context.Context) ([]string, error)
	Release(ctx context.Context) error
	MarkCommentCountDirty(ctx context.Context, postID string) error
}

// CommentCounter 按评论表重算帖子计数
type CommentCounter interface {
	ReconcileCommentCount(ctx context.Context, postID string) (int64, error)
}

// CommentCountJob 修正计数写入失败的帖子
type CommentCountJob struct {
	counter CommentCounter
	dirty   DirtySet
	timeout time.Duration
}

func NewCommentCountJob(counter CommentCounter, dirty DirtySet, timeout time.Duration) *CommentCountJob {
	return &CommentCountJob{
		counter: counter,
		dirty:   dirty,
		timeout: timeout,
	}
}

func (s *CommentCountJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "job-comment-count-"+uuid.NewString())
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.RunOnce(ctx)
}

// RunOnce 处理一轮脏集合，返回成功修正的数量
func (s *CommentCountJob) RunOnce(ctx context.Context) int {
	postIDs, err := s.dirty.Claim(ctx)
	if err != nil {
		log.ErrorContext(ctx, "claim comment count dirty set error", "err", err)
		return 0
	}
	if len(postIDs) == 0 {
		return 0
	}

	log.InfoContext(ctx, "start reconciling comment count", "count", len(postIDs))

	successCount := 0
	var failed []string
	for _, pid := range postIDs {
		count, err := s.counter.ReconcileCommentCount(ctx, pid)
		if err != nil {
			log.ErrorContext(ctx, "reconcile comment count error", "postID", pid, "err", err)
			failed = append(failed, pid)
			continue
		}
		log.DebugContext(ctx, "comment count reconciled", "postID", pid, "count", count)
		successCount++
	}

	// 失败的帖子放回脏集合，下一轮继续
	bg := context.WithoutCancel(ctx)
	for _, pid := range failed {
		if err := s.dirty.MarkCommentCountDirty(bg, pid); err != nil {
			log.ErrorContext(ctx, "re-mark comment count dirty error", "postID", pid, "err", err)
		}
	}

	if err := s.dirty.Release(bg); err != nil {
		log.ErrorContext(ctx, "delete comment count processing set error", "err", err)
	}

	log.InfoContext(ctx, "reconcile comment count finished",
		"total_count", len(postIDs),
		"success_count", successCount)
	return successCount
}
