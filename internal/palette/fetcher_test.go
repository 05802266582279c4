package palette

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage returns a 200x200 image split into four colored quadrants.
func testImage(t *testing.T) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	quadrants := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			q := 0
			if x >= 100 {
				q++
			}
			if y >= 100 {
				q += 2
			}
			img.Set(x, y, quadrants[q])
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestFetcher(t *testing.T, timeout time.Duration) (*Fetcher, string) {
	t.Helper()
	dir := t.TempDir()
	f := NewFetcher(timeout)
	f.tempDir = dir
	return f, dir
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files left behind")
}

func TestFetchDecodesAndCleansUp(t *testing.T) {
	body := encodePNG(t, testImage(t))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t, 5*time.Second)
	img, err := f.Fetch(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	require.NotNil(t, img)

	bounds := img.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), maxExtractSize)
	assert.LessOrEqual(t, bounds.Dy(), maxExtractSize)
	assertNoTempFiles(t, dir)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t, 5*time.Second)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.png")
	assert.ErrorIs(t, err, ErrFetch)
	assertNoTempFiles(t, dir)
}

func TestFetchUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("definitely not an image"))
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t, 5*time.Second)
	_, err := f.Fetch(context.Background(), srv.URL+"/corrupt.jpg")
	assert.ErrorIs(t, err, ErrDecode)
	assertNoTempFiles(t, dir)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t, 30*time.Millisecond)
	_, err := f.Fetch(context.Background(), srv.URL+"/slow.png")
	assert.ErrorIs(t, err, ErrFetch)
	assertNoTempFiles(t, dir)
}

func TestResizedVariantURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"cloudinary upload url gets transform",
			"https://res.cloudinary.com/demo/image/upload/v1/cats.jpg",
			"https://res.cloudinary.com/demo/image/upload/w_500,h_500,c_scale/v1/cats.jpg",
		},
		{
			"already transformed url untouched",
			"https://res.cloudinary.com/demo/image/upload/w_500,h_500,c_scale/v1/cats.jpg",
			"https://res.cloudinary.com/demo/image/upload/w_500,h_500,c_scale/v1/cats.jpg",
		},
		{
			"plain url passes through",
			"https://example.com/images/cats.jpg",
			"https://example.com/images/cats.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResizedVariantURL(tt.in))
		})
	}
}
