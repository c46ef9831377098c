package util

import (
	"encoding/base64"
	"errors"

	"github.com/goccy/go-json"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// EncodeCursor 将续页位置编码为 URL 安全的 Base64 字符串
func EncodeCursor(position any) string {
	if position == nil {
		return ""
	}
	b, err := json.Marshal(position)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor 将前端传来的游标解码到 position，空游标不做任何事
func DecodeCursor(cursor string, position any) error {
	if cursor == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return ErrInvalidCursor
	}
	if err = json.Unmarshal(b, position); err != nil {
		return ErrInvalidCursor
	}
	return nil
}
