package repository

import (
	"Bandwall/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListPosts(ctx context.Context, limit int, after *PostCursor) ([]*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(post).Error, "create post")
}

func (s *PostRepoImpl) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, errors.Wrap(err, "get post")
	}
	return &post, nil
}

// ListPosts 按创建时间倒序分页，after 为空时从最新开始
func (s *PostRepoImpl) ListPosts(ctx context.Context, limit int, after *PostCursor) ([]*model.Post, error) {
	var posts []*model.Post
	query := s.db.WithContext(ctx).Model(&model.Post{})
	if after != nil {
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", after.CreatedAt, after.CreatedAt, after.ID)
	}
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return posts, nil
}
