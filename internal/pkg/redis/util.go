package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// SAdd 向集合添加成员
func SAdd(ctx context.Context, key string, members ...any) error {
	return Rdb.SAdd(ctx, key, members...).Err()
}

// GetSet 获取集合
func GetSet(ctx context.Context, key string) ([]string, error) {
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// MoveSet 将 src 的成员并入 dst 并删除 src
func MoveSet(ctx context.Context, src, dst string) error {
	pipe := Rdb.TxPipeline()
	pipe.SUnionStore(ctx, dst, dst, src)
	pipe.Del(ctx, src)
	_, err := pipe.Exec(ctx)
	return err
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	return Rdb.Del(ctx, key).Err()
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}
