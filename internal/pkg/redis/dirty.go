package redis

import (
	"Bandwall/internal/pkg/consts"
	"context"
)

// DirtySet 待对账帖子集合
// Claim 把当前集合并入处理中集合，上次未完成的成员一并返回；Release 清理处理中集合
type DirtySet struct {
	key string
}

func NewDirtySet(key string) *DirtySet {
	return &DirtySet{key: key}
}

func (s *DirtySet) MarkCommentCountDirty(ctx context.Context, postID string) error {
	return SAdd(ctx, s.key, postID)
}

func (s *DirtySet) Claim(ctx context.Context) ([]string, error) {
	processing := s.key + consts.ProcessingSuffix
	if err := MoveSet(ctx, s.key, processing); err != nil {
		return nil, err
	}
	return GetSet(ctx, processing)
}

func (s *DirtySet) Release(ctx context.Context) error {
	return DeleteKey(ctx, s.key+consts.ProcessingSuffix)
}
