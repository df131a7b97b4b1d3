package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbersaas/internal/infra/objectstore"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestToWebPScalesLongestSide(t *testing.T) {
	out, err := ToWebP(pngOf(t, 800, 400), 256, 75)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 256, cfg.Width)
	require.Equal(t, 128, cfg.Height)
}

func TestToWebPKeepsSmallImages(t *testing.T) {
	out, err := ToWebP(pngOf(t, 100, 60), 256, 0)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Width)
	require.Equal(t, 60, cfg.Height)
}

func TestToWebPRejectsGarbage(t *testing.T) {
	_, err := ToWebP(strings.NewReader("not an image"), 0, 0)
	require.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestObjectURL(t *testing.T) {
	key := BarberPhotoKey("b-1", 42)
	require.Equal(t, "barbers/b-1/photo-42.webp", key)

	cases := []struct {
		cfg  objectstore.Config
		want string
	}{
		{objectstore.Config{Bucket: "fotos", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com/" + key},
		{objectstore.Config{Bucket: "fotos", Endpoint: "http://minio:9000"}, "http://minio:9000/fotos/" + key},
		{objectstore.Config{Bucket: "fotos", Region: "sa-east-1"}, "https://fotos.s3.sa-east-1.amazonaws.com/" + key},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ObjectURL(tc.cfg, key))
	}
}
