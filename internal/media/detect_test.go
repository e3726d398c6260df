package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		f, err := Detect(encodePNG(t))
		require.NoError(t, err)
		assert.Equal(t, "image/png", f.ContentType)
		assert.Equal(t, ".png", f.Extension)
	})

	t.Run("jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil))

		f, err := Detect(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "jpeg", f.Name)
	})

	t.Run("text is rejected", func(t *testing.T) {
		_, err := Detect([]byte("definitely not an image"))
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("empty is rejected", func(t *testing.T) {
		_, err := Detect(nil)
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("truncated header is rejected", func(t *testing.T) {
		data := encodePNG(t)
		_, err := Detect(data[:10])
		assert.ErrorIs(t, err, ErrNotImage)
	})
}
