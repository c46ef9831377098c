package model

import (
	"time"
)

type Post struct {
	ID            string    `gorm:"primaryKey;type:char(36);index:idx_created_id,priority:2" json:"postId"`
	Caption       string    `gorm:"type:varchar(2200);not null" json:"caption"`
	ImageRef      string    `gorm:"type:varchar(512);not null" json:"imageRef"`
	Creator       string    `gorm:"type:varchar(128);not null" json:"creator"`
	CommentsCount int64     `gorm:"not null;default:0" json:"commentCount"`
	CreatedAt     time.Time `gorm:"type:datetime(6);not null;index:idx_created_id,priority:1" json:"createdAt"`
}

func (Post) TableName() string {
	return "posts"
}
