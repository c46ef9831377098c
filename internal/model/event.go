package model

import "time"

const (
	EventPostCreated  = "PostCreated"
	EventCommentAdded = "CommentAdded"
)

// PostCreatedEvent 帖子创建事件
type PostCreatedEvent struct {
	PostID     string    `json:"postId"`
	Caption    string    `json:"caption"`
	OccurredAt time.Time `json:"occurredAt"`
}

// CommentAddedEvent 评论新增事件，同时作为任务队列的消息体
type CommentAddedEvent struct {
	PostID     string    `json:"postId"`
	CommentID  string    `json:"commentId"`
	Content    string    `json:"content"`
	Creator    string    `json:"creator"`
	OccurredAt time.Time `json:"occurredAt"`
}
