package repository

import (
	"Bandwall/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, commentID string) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) (bool, error)
	GetRecentComments(ctx context.Context, postID string, limit int) ([]*model.Comment, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db}
}

func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(comment).Error, "create comment")
}

func (s *CommentRepoImpl) GetComment(ctx context.Context, commentID string) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		return nil, errors.Wrap(err, "get comment")
	}
	return &comment, nil
}

// DeleteComment 物理删除，返回本次调用是否真正删除了记录
func (s *CommentRepoImpl) DeleteComment(ctx context.Context, postID, commentID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", commentID, postID).
		Delete(&model.Comment{})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "delete comment")
	}
	return res.RowsAffected > 0, nil
}

// GetRecentComments 最新的 limit 条评论，created_at 相同时按 id 倒序
func (s *CommentRepoImpl) GetRecentComments(ctx context.Context, postID string, limit int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "get recent comments")
	}
	return comments, nil
}

func (s *CommentRepoImpl) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, errors.Wrap(err, "count comments")
}
