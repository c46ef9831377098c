package redis

import (
	"Bandwall/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue 基于 List 的可靠队列
// 出队时原子移入处理中列表，确认后删除，失败的任务进入死信列表
type Queue struct {
	rdb        *redis.Client
	key        string
	processing string
	dead       string
}

func NewQueue(rdb *redis.Client, key string) *Queue {
	return &Queue{
		rdb:        rdb,
		key:        key,
		processing: key + consts.ProcessingSuffix,
		dead:       key + consts.DeadLetterSuffix,
	}
}

func (q *Queue) Enqueue(ctx context.Context, payload []byte) error {
	return q.rdb.RPush(ctx, q.key, payload).Err()
}

// Dequeue 阻塞等待任务，超时返回 nil
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	payload, err := q.rdb.BLMove(ctx, q.key, q.processing, "LEFT", "RIGHT", timeout).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (q *Queue) Ack(ctx context.Context, payload []byte) error {
	return q.rdb.LRem(ctx, q.processing, 1, payload).Err()
}

func (q *Queue) DeadLetter(ctx context.Context, payload []byte) error {
	pipe := q.rdb.TxPipeline()
	pipe.LRem(ctx, q.processing, 1, payload)
	pipe.RPush(ctx, q.dead, payload)
	_, err := pipe.Exec(ctx)
	return err
}

// Recover 将上次未确认的任务放回队首，返回数量
func (q *Queue) Recover(ctx context.Context) (int, error) {
	n := 0
	for {
		err := q.rdb.LMove(ctx, q.processing, q.key, "RIGHT", "LEFT").Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// Len 待处理任务数
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
