package palette

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

var (
	// ErrFetch covers transport errors and non-2xx responses for the source image
	ErrFetch = errors.New("image fetch failed")
	// ErrDecode means the bytes arrived but are not a decodable raster image
	ErrDecode = errors.New("image decode failed")
)

const (
	// maxExtractSize bounds the pixel data handed to quantization
	maxExtractSize = 500

	cdnUploadMarker    = "/upload/"
	cdnResizeTransform = "w_500,h_500,c_scale"
)

// Fetcher downloads source images for palette extraction.
type Fetcher struct {
	client  *http.Client
	tempDir string // "" means the OS default temp dir
}

// NewFetcher returns a Fetcher whose downloads are bounded by timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the image behind imageURL into a per-call temporary file,
// decodes it, and returns pixel data downscaled to at most 500x500.
// The temp file name is unique per call and the file is removed before Fetch
// returns on every path: success, fetch error, and decode error.
func (f *Fetcher) Fetch(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ResizedVariantURL(imageURL), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(f.tempDir, "palette-*.img")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	img, _, err := image.Decode(tmp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return resize.Thumbnail(maxExtractSize, maxExtractSize, img, resize.Lanczos3), nil
}

// ResizedVariantURL rewrites a Cloudinary-style URL to request a server-side
// downscaled variant, so we never download the full-resolution original.
// URLs without the upload path convention pass through unchanged.
func ResizedVariantURL(imageURL string) string {
	if strings.Contains(imageURL, cdnUploadMarker) && !strings.Contains(imageURL, cdnResizeTransform) {
		return strings.Replace(imageURL, cdnUploadMarker, cdnUploadMarker+cdnResizeTransform+"/", 1)
	}
	return imageURL
}
