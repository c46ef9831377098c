package util

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

var (
	ErrImageNotBase64   = errors.New("image is not valid base64")
	ErrImageTooLarge    = errors.New("image too large")
	ErrImageUnsupported = errors.New("image type unsupported")
)

// ImageInfo 校验通过的图片
type ImageInfo struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// DecodeBase64Image 解码并校验 Base64 图片，兼容 data URI 前缀
// maxPixels 限制声明的宽高乘积，超出时不做完整解码
func DecodeBase64Image(raw string, maxBytes, maxPixels int, allowedTypes []string) (*ImageInfo, error) {
	payload := strings.TrimSpace(raw)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, ErrImageNotBase64
		}
		payload = payload[idx+1:]
	}

	// 解码前先按编码长度估算大小
	enc := base64.StdEncoding
	if len(payload)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	if maxBytes > 0 && enc.DecodedLen(len(payload)) > maxBytes+2 {
		return nil, ErrImageTooLarge
	}

	data, err := enc.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, ErrImageNotBase64
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, ErrImageTooLarge
	}

	mtype := mimetype.Detect(data)
	allowed := false
	for _, t := range allowedTypes {
		if mtype.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrImageUnsupported
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || header.Width <= 0 || header.Height <= 0 {
		return nil, ErrImageUnsupported
	}
	if maxPixels > 0 && int64(header.Width)*int64(header.Height) > int64(maxPixels) {
		return nil, ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrImageUnsupported
	}
	bounds := img.Bounds()

	return &ImageInfo{
		Data:        data,
		ContentType: strings.SplitN(mtype.String(), ";", 2)[0],
		Extension:   mtype.Extension(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}
