package model

import (
	"time"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;type:char(36)" json:"commentId"`
	PostID    string    `gorm:"type:char(36);not null;index:idx_post_created,priority:1" json:"postId"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	Creator   string    `gorm:"type:varchar(128);not null" json:"creator"`
	CreatedAt time.Time `gorm:"type:datetime(6);not null;index:idx_post_created,priority:2" json:"createdAt"`
}

func (Comment) TableName() string {
	return "post_comments"
}

// CommentCounterOp 计数变更流水，OpKey 唯一保证同一变更只生效一次
// 一条评论对计数的贡献为 1 当且仅当存在 add 流水且不存在 del 流水
type CommentCounterOp struct {
	OpKey     string    `gorm:"primaryKey;type:varchar(96)"`
	PostID    string    `gorm:"type:char(36);not null;index:idx_post_id"`
	CommentID string    `gorm:"type:char(36);not null;index:idx_comment_id"`
	Delta     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (CommentCounterOp) TableName() string {
	return "comment_counter_ops"
}

const (
	AddOpPrefix    = "comment:add:"
	DeleteOpPrefix = "comment:del:"
)

// AddOpKey 新增评论对应的计数幂等键
func AddOpKey(commentID string) string {
	return AddOpPrefix + commentID
}

// DeleteOpKey 删除评论对应的计数幂等键
func DeleteOpKey(commentID string) string {
	return DeleteOpPrefix + commentID
}

// CounterOpKeys delta 为正返回 add 键，否则返回 del 键；paired 为与之抵消的另一条
func CounterOpKeys(commentID string, delta int) (key, paired string) {
	if delta > 0 {
		return AddOpKey(commentID), DeleteOpKey(commentID)
	}
	return DeleteOpKey(commentID), AddOpKey(commentID)
}
