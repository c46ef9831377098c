package dto

// CreatePostDTO 创建帖子，image 为 Base64 编码（可带 data URI 前缀）
type CreatePostDTO struct {
	Caption string `json:"caption"`
	Image   string `json:"image"`
}

// PostListDTO 帖子列表查询
type PostListDTO struct {
	Limit  int    `form:"limit" binding:"omitempty,min=0,max=1000"`
	Cursor string `form:"cursor" binding:"omitempty,max=512"`
}

// PostDTO 帖子
type PostDTO struct {
	PostID       string `json:"postId" copier:"ID"`
	Caption      string `json:"caption"`
	ImageRef     string `json:"imageRef"`
	ImageURL     string `json:"imageUrl"`
	Creator      string `json:"creator"`
	CommentCount int64  `json:"commentCount" copier:"CommentsCount"`
	CreatedAt    string `json:"createdAt" copier:"-"`
}

// PostWithCommentsDTO 列表项：帖子 + 最新评论预览
type PostWithCommentsDTO struct {
	PostDTO
	Comments []*CommentDTO `json:"comments"`
}

type CreatePostResponse struct {
	Message string   `json:"message"`
	Post    *PostDTO `json:"post"`
}
