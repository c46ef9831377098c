package service

import (
	"Bandwall/internal/api/config"
	"Bandwall/internal/model"
	"Bandwall/internal/repository/memory"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

func testContentConfig() config.ContentConfig {
	cfg := config.Default().Content
	cfg.CounterBackoff = time.Millisecond
	return cfg
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
	keys   []string
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, eventType, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, eventType)
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks [][]byte
	err   error
	block bool
}

func (q *fakeQueue) Enqueue(ctx context.Context, payload []byte) error {
	if q.block {
		<-ctx.Done()
		return ctx.Err()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, payload)
	return nil
}

func (q *fakeQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

type fakeDirty struct {
	mu  sync.Mutex
	ids []string
}

func (d *fakeDirty) MarkCommentCountDirty(ctx context.Context, postID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, postID)
	return nil
}

// flakyCounter 前 failures 次调用在写入后返回错误，模拟提交成功但响应丢失
type flakyCounter struct {
	*memory.Store
	failures   int32
	failAfter  bool
	alwaysFail bool
	calls      atomic.Int32
}

func (c *flakyCounter) ApplyCommentDelta(ctx context.Context, postID, commentID string, delta int) (bool, error) {
	n := c.calls.Add(1)
	if c.alwaysFail {
		return false, errInjected
	}
	if n <= c.failures {
		if c.failAfter {
			_, _ = c.Store.ApplyCommentDelta(ctx, postID, commentID, delta)
		}
		return false, errInjected
	}
	return c.Store.ApplyCommentDelta(ctx, postID, commentID, delta)
}

// recountingCounter 每次计数更新前先跑一轮对账，模拟定时任务落在评论写入与计数更新之间
type recountingCounter struct {
	*memory.Store
	recounts atomic.Int32
}

func (c *recountingCounter) ApplyCommentDelta(ctx context.Context, postID, commentID string, delta int) (bool, error) {
	if _, err := c.Store.RecountComments(ctx, postID); err != nil {
		return false, err
	}
	c.recounts.Add(1)
	return c.Store.ApplyCommentDelta(ctx, postID, commentID, delta)
}

type failingBlobs struct {
	*memory.BlobStore
}

func (b *failingBlobs) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return errInjected
}

// failingPostRepo 写入帖子总是失败
type failingPostRepo struct {
	*memory.Store
}

func (r *failingPostRepo) CreatePost(ctx context.Context, post *model.Post) error {
	return errInjected
}

type fixture struct {
	store      *memory.Store
	blobs      *memory.BlobStore
	publisher  *fakePublisher
	queue      *fakeQueue
	dirty      *fakeDirty
	dispatcher *EventDispatcher
	svc        ContentService
}

func newFixture(t *testing.T, mutate ...func(*config.ContentConfig)) *fixture {
	t.Helper()
	cfg := testContentConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	f := &fixture{
		store:     memory.NewStore(),
		blobs:     memory.NewBlobStore(),
		publisher: &fakePublisher{},
		queue:     &fakeQueue{},
		dirty:     &fakeDirty{},
	}
	f.dispatcher = NewEventDispatcher(f.publisher, f.queue, cfg.PublishTimeout)
	f.svc = NewContentService(f.store, f.store, f.store, f.blobs, f.dispatcher, f.dirty, cfg)
	return f
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
