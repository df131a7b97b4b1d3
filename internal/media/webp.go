// Package media prepares barber photos: any JPEG/PNG/WebP upload is scaled down
// and re-encoded as WebP before it is stored.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxSide = 512
	DefaultQuality = 80

	// 5 MB
	MaxUploadBytes = 5 << 20
)

var ErrUnsupportedImage = errors.New("unsupported_image")

func fit(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}

// ToWebP decodes r, shrinks it so the longest side is at most maxSide and
// returns the WebP bytes.
func ToWebP(r io.Reader, maxSide int, quality float32) ([]byte, error) {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	if quality <= 0 {
		quality = DefaultQuality
	}

	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), maxSide)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
