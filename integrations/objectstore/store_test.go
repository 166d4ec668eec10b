package objectstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyLayout(t *testing.T) {
	assert.Equal(t, "ws-1/variations/var-9-edited.png", ObjectKey("ws-1", "var-9", "edited"))
}

func TestInlineStoreRoundTripsThroughFetcher(t *testing.T) {
	url, err := InlineStore{}.PutImage(context.Background(), "ignored", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	data, contentType, err := Fetcher{}.FetchImage(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", contentType)
}

func TestFetcherDownloadsOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg"))
	}))
	defer server.Close()

	data, contentType, err := Fetcher{Client: server.Client()}.FetchImage(context.Background(), server.URL+"/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
	assert.Equal(t, "image/jpeg", contentType)
}

func TestFetcherRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, _, err := Fetcher{Client: server.Client()}.FetchImage(context.Background(), server.URL)
	require.Error(t, err)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	store, err := New(Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b", Bucket: "brand-assets"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/brand-assets", store.publicURL)
}
