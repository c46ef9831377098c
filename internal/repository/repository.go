package repository

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrRecordNotFound 所有存储实现统一使用的未找到错误
var ErrRecordNotFound = gorm.ErrRecordNotFound

// PostCursor 帖子列表的续页位置，按 (created_at, id) 倒序
type PostCursor struct {
	CreatedAt time.Time
	ID        string
}

// Before 判断 (createdAt, id) 是否排在游标之后
func (c *PostCursor) Before(createdAt time.Time, id string) bool {
	if c == nil {
		return true
	}
	if createdAt.Equal(c.CreatedAt) {
		return id < c.ID
	}
	return createdAt.Before(c.CreatedAt)
}

// IsDuplicateError 判断是否为 MySQL 唯一键冲突
func IsDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
