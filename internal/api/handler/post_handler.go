package handler

import (
	"Bandwall/internal/api/dto"
	"Bandwall/internal/api/middleware"
	"Bandwall/internal/pkg/consts"
	"Bandwall/internal/pkg/response"
	"Bandwall/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgPostCreated = "Post created successfully!"
	// Base64 膨胀 4/3，另留字段余量
	bodyOverhead = 64 << 10
)

type PostHandler struct {
	contentSvc service.ContentService
	listingSvc service.ListingService
	urls       service.ImageURLResolver
	maxBody    int64
}

func NewPostHandler(contentSvc service.ContentService, listingSvc service.ListingService, urls service.ImageURLResolver, maxImageBytes int) *PostHandler {
	return &PostHandler{
		contentSvc: contentSvc,
		listingSvc: listingSvc,
		urls:       urls,
		maxBody:    int64(maxImageBytes)/3*4 + 4 + bodyOverhead,
	}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)

	var req dto.CreatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	post, err := s.contentSvc.CreatePostWithImage(c.Request.Context(), middleware.Creator(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto.CreatePostResponse{
		Message: msgPostCreated,
		Post:    service.ToPostDTO(post, s.urls),
	})
}

// ListPosts 帖子列表，续页游标放在响应头
func (s *PostHandler) ListPosts(c *gin.Context) {
	var query dto.PostListDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	items, next, err := s.listingSvc.GetPostsWithRecentComments(c.Request.Context(), query.Limit, query.Cursor)
	if err != nil {
		response.Error(c, err)
		return
	}

	if next != "" {
		c.Header(consts.HeaderNextCursor, next)
	}
	response.Success(c, http.StatusOK, items)
}
