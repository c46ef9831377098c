package service

import (
	"Bandwall/internal/api/dto"
	"Bandwall/internal/model"
	"time"

	"github.com/jinzhu/copier"
)

// ImageURLResolver 将对象键转换为可访问地址
type ImageURLResolver interface {
	PublicURL(key string) string
}

const timeLayout = time.RFC3339Nano

// ToPostDTO 帖子模型转换为输出结构
func ToPostDTO(post *model.Post, urls ImageURLResolver) *dto.PostDTO {
	out := &dto.PostDTO{}
	_ = copier.Copy(out, post)
	out.CreatedAt = post.CreatedAt.UTC().Format(timeLayout)
	if urls != nil && post.ImageRef != "" {
		out.ImageURL = urls.PublicURL(post.ImageRef)
	}
	return out
}

func ToCommentDTO(comment *model.Comment) *dto.CommentDTO {
	out := &dto.CommentDTO{}
	_ = copier.Copy(out, comment)
	out.CreatedAt = comment.CreatedAt.UTC().Format(timeLayout)
	return out
}

func ToCommentDTOs(comments []*model.Comment) []*dto.CommentDTO {
	out := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentDTO(c))
	}
	return out
}
