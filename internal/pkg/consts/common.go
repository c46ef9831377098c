package consts

// gin 上下文键
const (
	CreatorKey = "creator"
)

// 上游网关注入的身份头
const (
	HeaderUserID     = "X-User-ID"
	HeaderNextCursor = "X-Next-Cursor"
)
