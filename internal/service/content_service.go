package service

import (
	"Bandwall/internal/api/config"
	"Bandwall/internal/api/dto"
	"Bandwall/internal/model"
	"Bandwall/internal/pkg/util"
	"Bandwall/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxCounterBackoff = time.Second

// BlobStore 图片对象存储
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// DirtyMarker 标记计数需要对账的帖子
type DirtyMarker interface {
	MarkCommentCountDirty(ctx context.Context, postID string) error
}

// Dispatcher 持久化成功后的事件分发，失败只记录不影响主流程
type Dispatcher interface {
	PostCreated(ctx context.Context, post *model.Post) error
	CommentAdded(ctx context.Context, comment *model.Comment) error
}

type ContentService interface {
	CreatePost(ctx context.Context, caption, imageRef, creator string) (*model.Post, error)
	CreatePostWithImage(ctx context.Context, creator string, req *dto.CreatePostDTO) (*model.Post, error)
	AddComment(ctx context.Context, postID, content, creator string) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListPosts(ctx context.Context, limit int, cursor string) ([]*model.Post, string, error)
	ReconcileCommentCount(ctx context.Context, postID string) (int64, error)
}

type contentServiceImpl struct {
	posts      repository.PostRepo
	comments   repository.CommentRepo
	counter    repository.AtomicCounterStore
	blobs      BlobStore
	dispatcher Dispatcher
	dirty      DirtyMarker
	cfg        config.ContentConfig
	now        func() time.Time
}

func NewContentService(
	posts repository.PostRepo,
	comments repository.CommentRepo,
	counter repository.AtomicCounterStore,
	blobs BlobStore,
	dispatcher Dispatcher,
	dirty DirtyMarker,
	cfg config.ContentConfig,
) ContentService {
	return &contentServiceImpl{
		posts:      posts,
		comments:   comments,
		counter:    counter,
		blobs:      blobs,
		dispatcher: dispatcher,
		dirty:      dirty,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// postPosition 游标中保存的续页位置
type postPosition struct {
	T  int64  `json:"t"`
	ID string `json:"id"`
}

// CreatePost 创建帖子，imageRef 为已存在的图片对象键
func (s *contentServiceImpl) CreatePost(ctx context.Context, caption, imageRef, creator string) (*model.Post, error) {
	caption, err := s.resolveCaption(caption)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(imageRef) == "" {
		return nil, ErrImageRequired
	}

	post := &model.Post{
		ID:        newID(),
		Caption:   caption,
		ImageRef:  imageRef,
		Creator:   s.resolveCreator(creator),
		CreatedAt: s.now(),
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	if err := s.posts.CreatePost(sctx, post); err != nil {
		log.ErrorContext(ctx, "create post error", "err", err)
		return nil, storageError(err)
	}

	// 投递失败已在 dispatcher 内记录
	if s.dispatcher != nil {
		s.dispatcher.PostCreated(ctx, post)
	}
	return post, nil
}

// CreatePostWithImage 校验图片后先上传再落库，落库失败时删除已上传对象
func (s *contentServiceImpl) CreatePostWithImage(ctx context.Context, creator string, req *dto.CreatePostDTO) (*model.Post, error) {
	if req == nil {
		return nil, ErrParamInvalid
	}
	caption, err := s.resolveCaption(req.Caption)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Image) == "" {
		return nil, ErrImageRequired
	}

	info, err := util.DecodeBase64Image(req.Image, s.cfg.MaxImageBytes, s.cfg.MaxImagePixels, s.cfg.AllowedImageTypes)
	if err != nil {
		return nil, imageError(err)
	}

	key := s.objectKey(info.Extension)
	sctx, cancel := s.storageCtx(ctx)
	err = s.blobs.Put(sctx, key, info.Data, info.ContentType)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "upload image error", "key", key, "err", err)
		return nil, storageError(err)
	}

	post, err := s.CreatePost(ctx, caption, key, creator)
	if err != nil {
		dctx, dcancel := s.storageCtx(context.WithoutCancel(ctx))
		defer dcancel()
		if delErr := s.blobs.Delete(dctx, key); delErr != nil {
			log.WarnContext(ctx, "remove orphan image error", "key", key, "err", delErr)
		}
		return nil, err
	}

	log.InfoContext(ctx, "post created", "postID", post.ID, "width", info.Width, "height", info.Height)
	return post, nil
}

// AddComment 先写评论，再以评论维度的幂等键递增计数
func (s *contentServiceImpl) AddComment(ctx context.Context, postID, content, creator string) (*model.Comment, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, ErrParamInvalid
	}
	content, err := s.resolveContent(content)
	if err != nil {
		return nil, err
	}

	if s.cfg.RequireExistingPost {
		sctx, cancel := s.storageCtx(ctx)
		_, err := s.posts.GetPost(sctx, postID)
		cancel()
		if err != nil {
			if isNotFound(err) {
				return nil, ErrPostNotFound
			}
			log.ErrorContext(ctx, "get post error", "postID", postID, "err", err)
			return nil, storageError(err)
		}
	}

	comment := &model.Comment{
		ID:        newID(),
		PostID:    postID,
		Content:   content,
		Creator:   s.resolveCreator(creator),
		CreatedAt: s.now(),
	}

	sctx, cancel := s.storageCtx(ctx)
	err = s.comments.CreateComment(sctx, comment)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "create comment error", "postID", postID, "err", err)
		return nil, storageError(err)
	}

	// 评论已持久化，计数步骤不再跟随调用方取消
	err = s.applyDelta(context.WithoutCancel(ctx), postID, comment.ID, 1)
	switch {
	case err == nil:
	case isNotFound(err):
		log.WarnContext(ctx, "comment added to missing post, counter skipped", "postID", postID, "commentID", comment.ID)
	default:
		s.markDirty(ctx, postID)
		return nil, storageError(err)
	}

	// 投递失败已在 dispatcher 内记录
	if s.dispatcher != nil {
		s.dispatcher.CommentAdded(ctx, comment)
	}
	return comment, nil
}

// DeleteComment 删除评论，评论不存在时视为已删除
func (s *contentServiceImpl) DeleteComment(ctx context.Context, postID, commentID string) error {
	if strings.TrimSpace(postID) == "" || strings.TrimSpace(commentID) == "" {
		return ErrParamInvalid
	}

	sctx, cancel := s.storageCtx(ctx)
	deleted, err := s.comments.DeleteComment(sctx, postID, commentID)
	cancel()
	if err != nil {
		log.ErrorContext(ctx, "delete comment error", "commentID", commentID, "err", err)
		return storageError(err)
	}
	if !deleted {
		log.InfoContext(ctx, "comment already absent", "postID", postID, "commentID", commentID)
		return nil
	}

	err = s.applyDelta(context.WithoutCancel(ctx), postID, commentID, -1)
	if err != nil && !isNotFound(err) {
		s.markDirty(ctx, postID)
		return storageError(err)
	}
	return nil
}

// ListPosts 按创建时间倒序分页，返回下一页游标，最后一页游标为空
func (s *contentServiceImpl) ListPosts(ctx context.Context, limit int, cursor string) ([]*model.Post, string, error) {
	limit = s.pageSize(limit)

	var after *repository.PostCursor
	if cursor != "" {
		var pos postPosition
		if err := util.DecodeCursor(cursor, &pos); err != nil || pos.ID == "" {
			return nil, "", fmt.Errorf("%w: bad cursor", ErrParamInvalid)
		}
		after = &repository.PostCursor{CreatedAt: time.Unix(0, pos.T).UTC(), ID: pos.ID}
	}

	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	posts, err := s.posts.ListPosts(sctx, limit+1, after)
	if err != nil {
		log.ErrorContext(ctx, "list posts error", "err", err)
		return nil, "", storageError(err)
	}

	next := ""
	if len(posts) > limit {
		posts = posts[:limit]
		last := posts[len(posts)-1]
		next = util.EncodeCursor(postPosition{T: last.CreatedAt.UnixNano(), ID: last.ID})
	}
	return posts, next, nil
}

// ReconcileCommentCount 以评论表为准重算帖子计数
func (s *contentServiceImpl) ReconcileCommentCount(ctx context.Context, postID string) (int64, error) {
	sctx, cancel := s.storageCtx(ctx)
	defer cancel()
	count, err := s.counter.RecountComments(sctx, postID)
	if err != nil {
		return 0, storageError(err)
	}
	return count, nil
}

// applyDelta 使用同一条流水重试计数更新，重复提交不会重复计数
func (s *contentServiceImpl) applyDelta(ctx context.Context, postID, commentID string, delta int) error {
	attempts := max(s.cfg.CounterRetries, 1)
	backoff := s.cfg.CounterBackoff

	var err error
	for i := 1; i <= attempts; i++ {
		sctx, cancel := s.storageCtx(ctx)
		_, err = s.counter.ApplyCommentDelta(sctx, postID, commentID, delta)
		cancel()
		if err == nil || isNotFound(err) {
			return err
		}
		log.WarnContext(ctx, "apply comment delta error", "commentID", commentID, "delta", delta, "attempt", i, "err", err)
		if i == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxCounterBackoff {
			backoff = maxCounterBackoff
		}
	}
	return err
}

func (s *contentServiceImpl) markDirty(ctx context.Context, postID string) {
	if s.dirty == nil {
		return
	}
	if err := s.dirty.MarkCommentCountDirty(context.WithoutCancel(ctx), postID); err != nil {
		log.ErrorContext(ctx, "mark comment count dirty error", "postID", postID, "err", err)
	}
}

func (s *contentServiceImpl) resolveCaption(caption string) (string, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		if s.cfg.StrictFields {
			return "", ErrCaptionRequired
		}
		caption = s.cfg.DefaultCaption
	}
	if s.cfg.CaptionMaxLen > 0 && utf8.RuneCountInString(caption) > s.cfg.CaptionMaxLen {
		return "", ErrCaptionTooLong
	}
	return caption, nil
}

func (s *contentServiceImpl) resolveContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		if s.cfg.StrictFields {
			return "", ErrContentRequired
		}
		content = s.cfg.DefaultComment
	}
	if s.cfg.ContentMaxLen > 0 && utf8.RuneCountInString(content) > s.cfg.ContentMaxLen {
		return "", ErrContentTooLong
	}
	return content, nil
}

func (s *contentServiceImpl) resolveCreator(creator string) string {
	creator = strings.TrimSpace(creator)
	if creator == "" {
		return s.cfg.AnonymousCreator
	}
	return creator
}

func (s *contentServiceImpl) pageSize(limit int) int {
	if limit <= 0 {
		limit = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}
	return max(limit, 1)
}

func (s *contentServiceImpl) storageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.StorageTimeout)
}

// objectKey 按日期分目录：posts/2006/01/02/<uuid>.jpg
func (s *contentServiceImpl) objectKey(ext string) string {
	return path.Join("posts", s.now().Format("2006/01/02"), uuid.NewString()+ext)
}

func imageError(err error) error {
	switch {
	case errors.Is(err, util.ErrImageNotBase64):
		return ErrImageEncoding
	case errors.Is(err, util.ErrImageTooLarge):
		return ErrImageTooLarge
	case errors.Is(err, util.ErrImageUnsupported):
		return ErrImageType
	default:
		return fmt.Errorf("%w: %w", ErrImageType, err)
	}
}

// newID 生成按时间有序的 UUIDv7
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
