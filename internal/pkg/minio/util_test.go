package minio

import (
	"Bandwall/internal/api/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	s := NewObjectStore(nil, "bandwall", config.MinIOConfig{
		InternalEndpoint: "minio:9000",
		ExternalEndpoint: "cdn.example.com/",
		ExternalUseSSL:   true,
	})
	assert.Equal(t, "https://cdn.example.com/bandwall/posts/2026/01/02/a.png", s.PublicURL("posts/2026/01/02/a.png"))

	internal := NewObjectStore(nil, "bandwall", config.MinIOConfig{InternalEndpoint: "minio:9000"})
	assert.Equal(t, "http://minio:9000/bandwall/a.png", internal.PublicURL("/a.png"))
}

func TestObjectStoreWithoutClient(t *testing.T) {
	s := NewObjectStore(nil, "bandwall", config.MinIOConfig{})
	assert.ErrorIs(t, s.Put(context.Background(), "k", []byte("x"), "image/png"), ErrNotInitialized)
	assert.ErrorIs(t, s.Delete(context.Background(), "k"), ErrNotInitialized)
}
