// Package memory 提供并发安全的内存存储实现，用于测试与本地开发
package memory

import (
	"Bandwall/internal/model"
	"Bandwall/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

// Store 同时实现 PostRepo、CommentRepo 与 AtomicCounterStore
type Store struct {
	mu       sync.RWMutex
	posts    map[string]*model.Post
	comments map[string]*model.Comment
	ops      map[string]*model.CommentCounterOp
}

func NewStore() *Store {
	return &Store{
		posts:    make(map[string]*model.Post),
		comments: make(map[string]*model.Comment),
		ops:      make(map[string]*model.CommentCounterOp),
	}
}

func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *post
	return &cp, nil
}

func (s *Store) ListPosts(ctx context.Context, limit int, after *repository.PostCursor) ([]*model.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if after.Before(p.CreatedAt, p.ID) {
			cp := *p
			posts = append(posts, &cp)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return newerFirst(posts[i].CreatedAt.UnixNano(), posts[i].ID, posts[j].CreatedAt.UnixNano(), posts[j].ID)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *Store) GetComment(ctx context.Context, commentID string) (*model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[commentID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[commentID]
	if !ok || c.PostID != postID {
		return false, nil
	}
	delete(s.comments, commentID)
	return true, nil
}

func (s *Store) GetRecentComments(ctx context.Context, postID string, limit int) ([]*model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []*model.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			cp := *c
			comments = append(comments, &cp)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return newerFirst(comments[i].CreatedAt.UnixNano(), comments[i].ID, comments[j].CreatedAt.UnixNano(), comments[j].ID)
	})
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (s *Store) CountByPostID(ctx context.Context, postID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked(postID), nil
}

func (s *Store) ApplyCommentDelta(ctx context.Context, postID, commentID string, delta int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return false, repository.ErrRecordNotFound
	}
	key, paired := model.CounterOpKeys(commentID, delta)
	if _, done := s.ops[key]; done {
		return false, nil
	}
	s.recordLocked(key, postID, commentID, delta)

	_, hasPaired := s.ops[paired]
	counted := !hasPaired
	if delta < 0 {
		counted = hasPaired
	}
	if counted {
		post.CommentsCount = max(post.CommentsCount+int64(delta), 0)
	}
	return true, nil
}

func (s *Store) RecountComments(ctx context.Context, postID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return 0, nil
	}

	for _, c := range s.comments {
		if c.PostID != postID {
			continue
		}
		if key := model.AddOpKey(c.ID); s.ops[key] == nil {
			s.recordLocked(key, postID, c.ID, 1)
		}
	}

	var count int64
	for _, op := range s.ops {
		if op.PostID != postID || op.Delta <= 0 {
			continue
		}
		delKey := model.DeleteOpKey(op.CommentID)
		if _, live := s.comments[op.CommentID]; !live && s.ops[delKey] == nil {
			s.recordLocked(delKey, postID, op.CommentID, -1)
		}
		if s.ops[delKey] == nil {
			count++
		}
	}
	post.CommentsCount = count
	return count, nil
}

func (s *Store) recordLocked(key, postID, commentID string, delta int) {
	s.ops[key] = &model.CommentCounterOp{
		OpKey:     key,
		PostID:    postID,
		CommentID: commentID,
		Delta:     delta,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Store) countLocked(postID string) int64 {
	var n int64
	for _, c := range s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n
}

func newerFirst(ti int64, idi string, tj int64, idj string) bool {
	if ti == tj {
		return idi > idj
	}
	return ti > tj
}
