package service

import (
	"Bandwall/internal/model"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDispatcher(t *testing.T) {
	ctx := context.Background()
	comment := &model.Comment{ID: "c1", PostID: "p1", Content: "Nice!", Creator: "u1"}

	t.Run("comment goes to both channels", func(t *testing.T) {
		pub, queue := &fakePublisher{}, &fakeQueue{}
		d := NewEventDispatcher(pub, queue, time.Second)
		require.NoError(t, d.CommentAdded(ctx, comment))

		assert.Equal(t, []string{model.EventCommentAdded}, pub.events)
		assert.Equal(t, []string{"p1"}, pub.keys)
		require.Equal(t, 1, queue.count())

		var evt model.CommentAddedEvent
		require.NoError(t, json.Unmarshal(queue.tasks[0], &evt))
		assert.Equal(t, "c1", evt.CommentID)
		assert.Equal(t, "Nice!", evt.Content)
	})

	t.Run("post goes to publisher only", func(t *testing.T) {
		pub, queue := &fakePublisher{}, &fakeQueue{}
		d := NewEventDispatcher(pub, queue, time.Second)
		require.NoError(t, d.PostCreated(ctx, &model.Post{ID: "p1", Caption: "c"}))
		assert.Equal(t, 1, pub.count())
		assert.Zero(t, queue.count())
	})

	t.Run("one failing channel does not block the other", func(t *testing.T) {
		pub, queue := &fakePublisher{err: errInjected}, &fakeQueue{}
		d := NewEventDispatcher(pub, queue, time.Second)
		err := d.CommentAdded(ctx, comment)
		assert.ErrorIs(t, err, ErrDownstream)
		assert.ErrorIs(t, err, errInjected)
		assert.Equal(t, 1, queue.count())
	})

	t.Run("bounded by timeout", func(t *testing.T) {
		d := NewEventDispatcher(nil, &fakeQueue{block: true}, 20*time.Millisecond)
		start := time.Now()
		err := d.CommentAdded(ctx, comment)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("caller cancellation does not abort delivery", func(t *testing.T) {
		pub := &fakePublisher{}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		d := NewEventDispatcher(pub, nil, time.Second)
		require.NoError(t, d.CommentAdded(cctx, comment))
		assert.Equal(t, 1, pub.count())
	})
}

func TestClassify(t *testing.T) {
	s, ok := Classify(storageError(context.DeadlineExceeded))
	require.True(t, ok)
	assert.Equal(t, ErrStorageTimeout, s)
	assert.Equal(t, ServiceUnavailable, ErrorMap[s])

	s, ok = Classify(downstreamError(ChannelWorkQueue, errInjected))
	require.True(t, ok)
	assert.Equal(t, KindDownstream, KindMap[s])

	_, ok = Classify(errInjected)
	assert.False(t, ok)
}

func TestClassifyIsDeterministic(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrStorage, ErrPostNotFound)
	for i := 0; i < 50; i++ {
		s, ok := Classify(err)
		require.True(t, ok)
		assert.Equal(t, ErrPostNotFound, s)
	}
}

func TestClassifyOrderCoversErrorMap(t *testing.T) {
	assert.Len(t, classifyOrder, len(ErrorMap))
	for _, s := range classifyOrder {
		assert.Contains(t, ErrorMap, s)
		assert.Contains(t, KindMap, s)
	}
}
