package repository

import (
	"Bandwall/internal/model"
	"context"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AtomicCounterStore 评论计数的原子条件更新能力
//
// ApplyCommentDelta 记录 commentID 的 add(delta>0) 或 del(delta<0) 流水并更新计数，结果不小于 0。
// 同一流水重复调用时 applied 返回 false 且不报错。del 只抵消已记录的 add，
// 先到的 del 会让之后的 add 不再计数。帖子不存在返回 ErrRecordNotFound。
// RecountComments 补齐评论表与流水的差异后按流水重算计数，与进行中的 ApplyCommentDelta 互不重复计数。
type AtomicCounterStore interface {
	ApplyCommentDelta(ctx context.Context, postID, commentID string, delta int) (applied bool, err error)
	RecountComments(ctx context.Context, postID string) (int64, error)
}

var errOpAlreadyApplied = stderrors.New("counter op already applied")

const (
	// 现存评论缺少 add 流水的补记 add
	fillAddOpsSQL = `INSERT IGNORE INTO comment_counter_ops (op_key, post_id, comment_id, delta, created_at)
SELECT CONCAT(?, c.id), c.post_id, c.id, 1, ? FROM post_comments c
WHERE c.post_id = ? AND NOT EXISTS (
	SELECT 1 FROM comment_counter_ops o WHERE o.op_key = CONCAT(?, c.id))`

	// 评论已删除但 del 流水未落地的补记 del
	fillDeleteOpsSQL = `INSERT IGNORE INTO comment_counter_ops (op_key, post_id, comment_id, delta, created_at)
SELECT CONCAT(?, a.comment_id), a.post_id, a.comment_id, -1, ? FROM comment_counter_ops a
WHERE a.post_id = ? AND a.delta > 0 AND NOT EXISTS (
	SELECT 1 FROM post_comments c WHERE c.id = a.comment_id)`

	recountFromOpsSQL = `UPDATE posts SET comments_count = (
	SELECT COUNT(*) FROM comment_counter_ops a
	WHERE a.post_id = ? AND a.delta > 0 AND NOT EXISTS (
		SELECT 1 FROM comment_counter_ops d WHERE d.op_key = CONCAT(?, a.comment_id)))
WHERE id = ?`
)

type CounterRepoImpl struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) AtomicCounterStore {
	return &CounterRepoImpl{db: db}
}

// lockPost 锁定帖子行，同一帖子的计数更新与重算在此串行
func lockPost(tx *gorm.DB, postID string) error {
	var post model.Post
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", postID).
		Take(&post).Error
}

func (s *CounterRepoImpl) ApplyCommentDelta(ctx context.Context, postID, commentID string, delta int) (bool, error) {
	key, paired := model.CounterOpKeys(commentID, delta)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, postID); err != nil {
			return err
		}

		op := &model.CommentCounterOp{
			OpKey:     key,
			PostID:    postID,
			CommentID: commentID,
			Delta:     delta,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(op).Error; err != nil {
			if IsDuplicateError(err) {
				return errOpAlreadyApplied
			}
			return err
		}

		var pairedCount int64
		if err := tx.Model(&model.CommentCounterOp{}).Where("op_key = ?", paired).Count(&pairedCount).Error; err != nil {
			return err
		}
		counted := pairedCount == 0
		if delta < 0 {
			counted = pairedCount > 0
		}
		if !counted {
			return nil
		}

		return tx.Model(&model.Post{}).
			Where("id = ?", postID).
			Update("comments_count", gorm.Expr("GREATEST(comments_count + ?, 0)", delta)).Error
	})
	if stderrors.Is(err, errOpAlreadyApplied) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "apply comment delta %s", key)
	}
	return true, nil
}

// RecountComments 帖子不存在时返回 0
func (s *CounterRepoImpl) RecountComments(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, postID); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Exec(fillAddOpsSQL, model.AddOpPrefix, now, postID, model.AddOpPrefix).Error; err != nil {
			return err
		}
		if err := tx.Exec(fillDeleteOpsSQL, model.DeleteOpPrefix, now, postID).Error; err != nil {
			return err
		}
		if err := tx.Exec(recountFromOpsSQL, postID, model.DeleteOpPrefix, postID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Select("comments_count").Where("id = ?", postID).Scan(&count).Error
	})
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "recount comments")
	}
	return count, nil
}
