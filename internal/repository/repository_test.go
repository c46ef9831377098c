package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestPostCursorBefore(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &PostCursor{CreatedAt: at, ID: "m"}

	assert.True(t, c.Before(at.Add(-time.Microsecond), "z"))
	assert.True(t, c.Before(at, "a"))
	assert.False(t, c.Before(at, "m"))
	assert.False(t, c.Before(at.Add(time.Microsecond), "a"))

	var none *PostCursor
	assert.True(t, none.Before(at, "m"))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsDuplicateError(fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: 1062})))
	assert.True(t, IsDuplicateError(gorm.ErrDuplicatedKey))
	assert.False(t, IsDuplicateError(&mysql.MySQLError{Number: 1213}))
	assert.False(t, IsDuplicateError(nil))
}
