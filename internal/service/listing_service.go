package service

import (
	"Bandwall/internal/api/dto"
	"Bandwall/internal/model"
	"context"
	log "log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// PostLister 帖子分页
type PostLister interface {
	ListPosts(ctx context.Context, limit int, cursor string) ([]*model.Post, string, error)
}

// RecentCommentFinder 单帖最新评论查询
type RecentCommentFinder interface {
	GetRecentComments(ctx context.Context, postID string, limit int) ([]*model.Comment, error)
}

type ListingService interface {
	GetPostsWithRecentComments(ctx context.Context, limit int, cursor string) ([]*dto.PostWithCommentsDTO, string, error)
}

type listingServiceImpl struct {
	posts       PostLister
	comments    RecentCommentFinder
	urls        ImageURLResolver
	recent      int
	parallelism int
	timeout     time.Duration
}

func NewListingService(posts PostLister, comments RecentCommentFinder, urls ImageURLResolver, recent, parallelism int, timeout time.Duration) ListingService {
	return &listingServiceImpl{
		posts:       posts,
		comments:    comments,
		urls:        urls,
		recent:      recent,
		parallelism: max(parallelism, 1),
		timeout:     timeout,
	}
}

// GetPostsWithRecentComments 返回一页帖子，每条附带最新的若干评论
// 单帖评论查询失败时该帖评论为空，不影响整页
func (s *listingServiceImpl) GetPostsWithRecentComments(ctx context.Context, limit int, cursor string) ([]*dto.PostWithCommentsDTO, string, error) {
	posts, next, err := s.posts.ListPosts(ctx, limit, cursor)
	if err != nil {
		return nil, "", err
	}

	items := make([]*dto.PostWithCommentsDTO, len(posts))
	for i, p := range posts {
		items[i] = &dto.PostWithCommentsDTO{
			PostDTO:  *ToPostDTO(p, s.urls),
			Comments: []*dto.CommentDTO{},
		}
	}
	if s.recent <= 0 {
		return items, next, nil
	}

	g := new(errgroup.Group)
	g.SetLimit(s.parallelism)
	for i, p := range posts {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			lctx, cancel := s.lookupCtx(ctx)
			defer cancel()

			comments, err := s.comments.GetRecentComments(lctx, p.ID, s.recent)
			if err != nil {
				log.WarnContext(ctx, "get recent comments error", "postID", p.ID, "err", err)
				return nil
			}
			items[i].Comments = ToCommentDTOs(newestFirst(comments, s.recent))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return items, next, nil
}

func (s *listingServiceImpl) lookupCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// newestFirst 按 (created_at, id) 倒序并截断
func newestFirst(comments []*model.Comment, n int) []*model.Comment {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if len(comments) > n {
		comments = comments[:n]
	}
	return comments
}
