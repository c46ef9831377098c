package response

import (
	"Bandwall/internal/api/dto"
	"Bandwall/internal/pkg/util"
	"Bandwall/internal/service"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// Success 成功返回，data 直接作为响应体
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, kind, message string, retryable bool) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Code:      status,
		Kind:      kind,
		Message:   message,
		Retryable: retryable,
	})
}

// BindError 请求绑定失败一律视为参数错误
func BindError(c *gin.Context, err error) {
	Error(c, fmt.Errorf("%w: %w", util.ErrValidation, err))
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		Fail(c, http.StatusBadRequest, service.KindValidation, service.ErrImageTooLarge.Error(), false)
		return
	}

	if isBadInput(err) {
		Fail(c, http.StatusBadRequest, service.KindValidation, service.ErrParamInvalid.Error(), false)
		return
	}

	sentinel, ok := service.Classify(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "unexpected error", "err", err)
		sentinel = service.UnExpectedError
	} else if service.ErrorMap[sentinel] >= http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed", "kind", service.KindMap[sentinel], "err", err)
	}

	Fail(c, service.ErrorMap[sentinel], service.KindMap[sentinel], sentinel.Error(), service.IsRetryable(sentinel))
}

func isBadInput(err error) bool {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) || errors.Is(err, util.ErrValidation) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	var syntaxError *json.SyntaxError
	var stdTypeError *stdjson.UnmarshalTypeError
	var stdSyntaxError *stdjson.SyntaxError
	return errors.As(err, &unmarshalTypeError) ||
		errors.As(err, &syntaxError) ||
		errors.As(err, &stdTypeError) ||
		errors.As(err, &stdSyntaxError)
}
