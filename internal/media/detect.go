package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Format describes a detected image encoding
type Format struct {
	Name        string
	ContentType string
	Extension   string
}

var formats = map[string]Format{
	"jpeg": {Name: "jpeg", ContentType: "image/jpeg", Extension: ".jpg"},
	"png":  {Name: "png", ContentType: "image/png", Extension: ".png"},
	"gif":  {Name: "gif", ContentType: "image/gif", Extension: ".gif"},
	"webp": {Name: "webp", ContentType: "image/webp", Extension: ".webp"},
}

// Detect classifies data by decoding its image header. It returns
// ErrNotImage for anything that is not a JPEG, PNG, GIF or WebP image.
func Detect(data []byte) (Format, error) {
	if len(data) == 0 {
		return Format{}, ErrNotImage
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return Format{}, ErrNotImage
	}

	f, ok := formats[name]
	if !ok {
		return Format{}, ErrNotImage
	}
	return f, nil
}
