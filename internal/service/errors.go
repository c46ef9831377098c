package service

import (
	"context"
	"errors"
	"fmt"

	"Bandwall/internal/repository"
)

const (
	BadRequest          = 400
	NotFound            = 404
	InternalServerError = 500
	ServiceUnavailable  = 503
)

// 对外暴露的稳定错误类别
const (
	KindValidation = "validation_error"
	KindNotFound   = "not_found"
	KindStorage    = "storage_error"
	KindDownstream = "downstream_error"
	KindInternal   = "internal_error"
)

var (
	ErrParamInvalid    = errors.New("invalid request parameters")
	ErrCaptionRequired = errors.New("caption is required")
	ErrCaptionTooLong  = errors.New("caption is too long")
	ErrContentRequired = errors.New("comment content is required")
	ErrContentTooLong  = errors.New("comment content is too long")
	ErrImageRequired   = errors.New("image is required")
	ErrImageEncoding   = errors.New("image must be base64 encoded")
	ErrImageTooLarge   = errors.New("image exceeds the maximum allowed size")
	ErrImageType       = errors.New("image type is not supported")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrStorage         = errors.New("storage is unavailable, please retry later")
	ErrStorageTimeout  = errors.New("storage operation timed out, please retry")
	ErrDownstream      = errors.New("downstream delivery failed")
	UnExpectedError    = errors.New("unexpected error, please retry later")
)

// classifyOrder 决定同一错误链包含多个哨兵时的优先级，靠前者优先
var classifyOrder = []error{
	ErrParamInvalid,
	ErrCaptionRequired,
	ErrCaptionTooLong,
	ErrContentRequired,
	ErrContentTooLong,
	ErrImageRequired,
	ErrImageEncoding,
	ErrImageTooLarge,
	ErrImageType,
	ErrPostNotFound,
	ErrCommentNotFound,
	ErrStorageTimeout,
	ErrStorage,
	ErrDownstream,
	UnExpectedError,
}

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrCaptionRequired: BadRequest,
	ErrCaptionTooLong:  BadRequest,
	ErrContentRequired: BadRequest,
	ErrContentTooLong:  BadRequest,
	ErrImageRequired:   BadRequest,
	ErrImageEncoding:   BadRequest,
	ErrImageTooLarge:   BadRequest,
	ErrImageType:       BadRequest,
	ErrPostNotFound:    NotFound,
	ErrCommentNotFound: NotFound,
	ErrStorage:         InternalServerError,
	ErrStorageTimeout:  ServiceUnavailable,
	ErrDownstream:      InternalServerError,
	UnExpectedError:    InternalServerError,
}

var KindMap = map[error]string{
	ErrParamInvalid:    KindValidation,
	ErrCaptionRequired: KindValidation,
	ErrCaptionTooLong:  KindValidation,
	ErrContentRequired: KindValidation,
	ErrContentTooLong:  KindValidation,
	ErrImageRequired:   KindValidation,
	ErrImageEncoding:   KindValidation,
	ErrImageTooLarge:   KindValidation,
	ErrImageType:       KindValidation,
	ErrPostNotFound:    KindNotFound,
	ErrCommentNotFound: KindNotFound,
	ErrStorage:         KindStorage,
	ErrStorageTimeout:  KindStorage,
	ErrDownstream:      KindDownstream,
	UnExpectedError:    KindInternal,
}

// Classify 找到 err 链上第一个已登记的哨兵错误
func Classify(err error) (sentinel error, ok bool) {
	if err == nil {
		return nil, false
	}
	if _, hit := ErrorMap[err]; hit {
		return err, true
	}
	for _, s := range classifyOrder {
		if errors.Is(err, s) {
			return s, true
		}
	}
	return nil, false
}

// IsRetryable 存储类错误允许调用方重试
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrStorageTimeout)
}

// storageError 将存储层错误归类为 ErrStorage / ErrStorageTimeout，保留原始错误链
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) || errors.Is(err, ErrStorageTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrStorageTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrRecordNotFound)
}

func downstreamError(channel string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDownstream, channel, err)
}
