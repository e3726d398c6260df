package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("http://media.local/")

	img, err := store.Upload(ctx, "pic.png", encodePNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.URL, "http://media.local/snapgram/"))
	assert.True(t, strings.HasSuffix(img.PublicID, ".png"))
	assert.True(t, store.Has(img.PublicID))

	require.NoError(t, store.Delete(ctx, img.PublicID))
	assert.False(t, store.Has(img.PublicID))
	assert.Error(t, store.Delete(ctx, img.PublicID))

	_, err = store.Upload(ctx, "notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ServeHTTP(t *testing.T) {
	store := NewMemoryStore("http://media.local")
	img, err := store.Upload(context.Background(), "pic.png", encodePNG(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	store.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+img.PublicID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	store.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapgram/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
