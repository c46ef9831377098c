package consts

const (
	CommentCountDirtyKey = "post:comment:count:dirty"
)

const (
	ProcessingSuffix = ":processing"
	DeadLetterSuffix = ":dead"
)
