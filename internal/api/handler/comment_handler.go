package handler

import (
	"Bandwall/internal/api/dto"
	"Bandwall/internal/api/middleware"
	"Bandwall/internal/pkg/response"
	"Bandwall/internal/pkg/util"
	"Bandwall/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgCommentAdded   = "Comment added successfully!"
	msgCommentDeleted = "Comment deleted successfully!"
	maxCommentBody    = 64 << 10
)

type commentPath struct {
	PostID    string `validate:"required,max=64"`
	CommentID string `validate:"omitempty,max=64"`
}

type CommentHandler struct {
	contentSvc service.ContentService
}

func NewCommentHandler(contentSvc service.ContentService) *CommentHandler {
	return &CommentHandler{
		contentSvc: contentSvc,
	}
}

func (s *CommentHandler) AddComment(c *gin.Context) {
	path := commentPath{PostID: c.Param("post_id")}
	if err := util.ValidateDTO(&path); err != nil {
		response.Error(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCommentBody)
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	comment, err := s.contentSvc.AddComment(c.Request.Context(), path.PostID, req.Content, middleware.Creator(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto.AddCommentResponse{
		Message: msgCommentAdded,
		Comment: service.ToCommentDTO(comment),
	})
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	path := commentPath{PostID: c.Param("post_id"), CommentID: c.Param("comment_id")}
	if err := util.ValidateDTO(&path); err != nil || path.CommentID == "" {
		response.Error(c, util.ErrValidation)
		return
	}

	if err := s.contentSvc.DeleteComment(c.Request.Context(), path.PostID, path.CommentID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto.DeleteCommentResponse{
		Message:   msgCommentDeleted,
		CommentID: path.CommentID,
	})
}
