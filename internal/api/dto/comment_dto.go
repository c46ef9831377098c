package dto

// CommentCreateDTO 新增评论
type CommentCreateDTO struct {
	Content string `json:"content"`
}

// CommentDTO 评论
type CommentDTO struct {
	CommentID string `json:"commentId" copier:"ID"`
	PostID    string `json:"postId"`
	Content   string `json:"content"`
	Creator   string `json:"creator"`
	CreatedAt string `json:"createdAt" copier:"-"`
}

type AddCommentResponse struct {
	Message string      `json:"message"`
	Comment *CommentDTO `json:"comment"`
}

type DeleteCommentResponse struct {
	Message   string `json:"message"`
	CommentID string `json:"commentId"`
}
