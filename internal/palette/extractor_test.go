package palette

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestNormalize(t *testing.T) {
	t.Run("empty list is a failure, not a black palette", func(t *testing.T) {
		_, err := normalize(nil)
		assert.ErrorIs(t, err, ErrNoColors)
	})

	t.Run("short list is padded with black", func(t *testing.T) {
		got, err := normalize([]string{"#ff0000", "#00ff00", "#0000ff"})
		require.NoError(t, err)
		assert.Equal(t, []string{"#ff0000", "#00ff00", "#0000ff", "#000000", "#000000"}, got)
	})

	t.Run("long list is truncated preserving order", func(t *testing.T) {
		got, err := normalize([]string{"#110000", "#220000", "#330000", "#440000", "#550000", "#660000", "#770000"})
		require.NoError(t, err)
		assert.Equal(t, []string{"#110000", "#220000", "#330000", "#440000", "#550000"}, got)
	})

	t.Run("exact list is unchanged", func(t *testing.T) {
		in := []string{"#110000", "#220000", "#330000", "#440000", "#550000"}
		got, err := normalize(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})
}

func TestQuantize(t *testing.T) {
	got, err := Quantize(testImage(t))
	require.NoError(t, err)
	require.Len(t, got, Size)
	for _, hex := range got {
		assert.Regexp(t, hexPattern, hex)
	}
}

func TestExtractEndToEnd(t *testing.T) {
	body := encodePNG(t, testImage(t))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f, dir := newTestFetcher(t, 5*time.Second)
	e := NewKMeansExtractor(f)

	got, err := e.Extract(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	require.Len(t, got, Size)
	for _, hex := range got {
		assert.Regexp(t, hexPattern, hex)
	}
	assertNoTempFiles(t, dir)
}

func TestExtractPropagatesFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, _ := newTestFetcher(t, 5*time.Second)
	e := NewKMeansExtractor(f)

	_, err := e.Extract(context.Background(), srv.URL+"/photo.png")
	assert.ErrorIs(t, err, ErrFetch)
}
