package util

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

func encodeImage(t *testing.T, kind string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	switch kind {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

// withDimensions 改写 PNG 头部声明的宽高并重算 IHDR 校验和
func withDimensions(t *testing.T, pngData []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(pngData)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecodeBase64Image(t *testing.T) {
	pngData := encodeImage(t, "png", 3, 2)

	t.Run("png", func(t *testing.T) {
		info, err := DecodeBase64Image(base64.StdEncoding.EncodeToString(pngData), 1<<20, 0, allowed)
		require.NoError(t, err)
		assert.Equal(t, "image/png", info.ContentType)
		assert.Equal(t, ".png", info.Extension)
		assert.Equal(t, 3, info.Width)
		assert.Equal(t, 2, info.Height)
	})

	t.Run("jpeg data uri", func(t *testing.T) {
		raw := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encodeImage(t, "jpeg", 4, 4))
		info, err := DecodeBase64Image(raw, 1<<20, 0, allowed)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", info.ContentType)
	})

	t.Run("unpadded", func(t *testing.T) {
		raw := strings.TrimRight(base64.StdEncoding.EncodeToString(pngData), "=")
		_, err := DecodeBase64Image(raw, 1<<20, 0, allowed)
		assert.NoError(t, err)
	})

	t.Run("type not allowed", func(t *testing.T) {
		_, err := DecodeBase64Image(base64.StdEncoding.EncodeToString(pngData), 1<<20, 0, []string{"image/jpeg"})
		assert.ErrorIs(t, err, ErrImageUnsupported)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := DecodeBase64Image(base64.StdEncoding.EncodeToString(pngData), 8, 0, allowed)
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("declared dimensions over pixel limit", func(t *testing.T) {
		huge := withDimensions(t, pngData, 12000, 12000)
		_, err := DecodeBase64Image(base64.StdEncoding.EncodeToString(huge), 1<<20, 25_000_000, allowed)
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("small image under pixel limit", func(t *testing.T) {
		_, err := DecodeBase64Image(base64.StdEncoding.EncodeToString(pngData), 1<<20, 6, allowed)
		assert.NoError(t, err)
		_, err = DecodeBase64Image(base64.StdEncoding.EncodeToString(pngData), 1<<20, 5, allowed)
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecodeBase64Image("***", 1<<20, 0, allowed)
		assert.ErrorIs(t, err, ErrImageNotBase64)
	})

	t.Run("truncated image", func(t *testing.T) {
		_, err := DecodeBase64Image(base64.StdEncoding.EncodeToString(pngData[:20]), 1<<20, 0, allowed)
		assert.ErrorIs(t, err, ErrImageUnsupported)
	})
}

func TestCursor(t *testing.T) {
	type pos struct {
		T  int64  `json:"t"`
		ID string `json:"id"`
	}
	in := pos{T: 1767225600123456000, ID: "0193a1b2-0000-7000-8000-000000000001"}
	c := EncodeCursor(in)
	require.NotEmpty(t, c)

	var out pos
	require.NoError(t, DecodeCursor(c, &out))
	assert.Equal(t, in, out)

	assert.NoError(t, DecodeCursor("", &out))
	assert.ErrorIs(t, DecodeCursor("not*base64", &out), ErrInvalidCursor)
	assert.ErrorIs(t, DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("[")), &out), ErrInvalidCursor)
}

func TestValidateDTO(t *testing.T) {
	type req struct {
		PostID string `validate:"required,max=8"`
	}
	assert.NoError(t, ValidateDTO(&req{PostID: "abc"}))
	assert.ErrorIs(t, ValidateDTO(&req{}), ErrValidation)
	assert.ErrorIs(t, ValidateDTO(&req{PostID: "123456789"}), ErrValidation)
}
