package memory

import (
	"Bandwall/internal/model"
	"Bandwall/internal/repository"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCommentDelta(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "p1", CreatedAt: time.Now()}))

	applied, err := s.ApplyCommentDelta(ctx, "p1", "c1", 1)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.ApplyCommentDelta(ctx, "p1", "c1", 1)
	require.NoError(t, err)
	assert.False(t, applied, "same op key applies once")

	_, err = s.ApplyCommentDelta(ctx, "p1", "c2", 1)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = s.ApplyCommentDelta(ctx, "p1", "c1", -1)
		require.NoError(t, err)
	}
	post, _ := s.GetPost(ctx, "p1")
	assert.EqualValues(t, 1, post.CommentsCount)

	// 从未计入的评论删除不影响计数
	_, err = s.ApplyCommentDelta(ctx, "p1", "unknown", -1)
	require.NoError(t, err)
	post, _ = s.GetPost(ctx, "p1")
	assert.EqualValues(t, 1, post.CommentsCount)

	_, err = s.ApplyCommentDelta(ctx, "missing", "c1", 1)
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestDeltaFlooredAtZero(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "p1"}))
	_, err := s.ApplyCommentDelta(ctx, "p1", "c1", 1)
	require.NoError(t, err)

	s.posts["p1"].CommentsCount = 0
	_, err = s.ApplyCommentDelta(ctx, "p1", "c1", -1)
	require.NoError(t, err)
	post, _ := s.GetPost(ctx, "p1")
	assert.Zero(t, post.CommentsCount)
}

func TestDeleteBeforeAdd(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "p1"}))

	_, err := s.ApplyCommentDelta(ctx, "p1", "c1", -1)
	require.NoError(t, err)
	applied, err := s.ApplyCommentDelta(ctx, "p1", "c1", 1)
	require.NoError(t, err)
	assert.True(t, applied)

	post, _ := s.GetPost(ctx, "p1")
	assert.Zero(t, post.CommentsCount, "add offset by earlier delete")
}

func TestRecountWithPendingOps(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("comment written, add pending", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "p1"}))
		require.NoError(t, s.CreateComment(ctx, &model.Comment{ID: "c1", PostID: "p1", CreatedAt: at}))

		count, err := s.RecountComments(ctx, "p1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		applied, err := s.ApplyCommentDelta(ctx, "p1", "c1", 1)
		require.NoError(t, err)
		assert.False(t, applied)
		post, _ := s.GetPost(ctx, "p1")
		assert.EqualValues(t, 1, post.CommentsCount)
	})

	t.Run("comment removed, delete pending", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "p1"}))
		for _, id := range []string{"c1", "c2"} {
			require.NoError(t, s.CreateComment(ctx, &model.Comment{ID: id, PostID: "p1", CreatedAt: at}))
			_, err := s.ApplyCommentDelta(ctx, "p1", id, 1)
			require.NoError(t, err)
		}
		deleted, err := s.DeleteComment(ctx, "p1", "c1")
		require.NoError(t, err)
		require.True(t, deleted)

		count, err := s.RecountComments(ctx, "p1")
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		applied, err := s.ApplyCommentDelta(ctx, "p1", "c1", -1)
		require.NoError(t, err)
		assert.False(t, applied)
		post, _ := s.GetPost(ctx, "p1")
		assert.EqualValues(t, 1, post.CommentsCount)
	})

	t.Run("missing post", func(t *testing.T) {
		s := NewStore()
		count, err := s.RecountComments(ctx, "nope")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestConcurrentDeltas(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "p1"}))

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ApplyCommentDelta(ctx, "p1", fmt.Sprintf("c%d", i), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	post, _ := s.GetPost(ctx, "p1")
	assert.EqualValues(t, 200, post.CommentsCount)
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "a", CreatedAt: base}))
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "b", CreatedAt: base}))
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "c", CreatedAt: base.Add(time.Second)}))

	posts, err := s.ListPosts(ctx, 10, nil)
	require.NoError(t, err)
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	posts, err = s.ListPosts(ctx, 10, &repository.PostCursor{CreatedAt: base, ID: "b"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "a", posts[0].ID)
}

func TestRecentCommentsAndRecount(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.CreatePost(ctx, &model.Post{ID: "p1", CommentsCount: 9}))
	for i, text := range []string{"Hello", "Nice!", "Cool"} {
		require.NoError(t, s.CreateComment(ctx, &model.Comment{
			ID: text, PostID: "p1", Content: text, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	recent, err := s.GetRecentComments(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Cool", recent[0].Content)
	assert.Equal(t, "Nice!", recent[1].Content)

	deleted, err := s.DeleteComment(ctx, "other", "Cool")
	require.NoError(t, err)
	assert.False(t, deleted)
	deleted, err = s.DeleteComment(ctx, "p1", "Cool")
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err := s.RecountComments(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore()
	assert.ErrorIs(t, s.CreatePost(ctx, &model.Post{ID: "p1"}), context.Canceled)
	_, err := s.ListPosts(ctx, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
