// Package testutil provides shared fixtures for commonseek tests: tiny
// encoded images and canned HTTP servers.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// TinyJPEG encodes a solid-color JPEG of the given dimensions.
func TinyJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode fixture JPEG: %v", err)
	}
	return buf.Bytes()
}

// ImageServer serves the given body for every request and counts requests.
// The counter lets tests assert how many fetches actually happened.
type ImageServer struct {
	*httptest.Server
	requests atomic.Int64
}

// NewImageServer starts a server answering every request with status and
// body. It is shut down when the test ends.
func NewImageServer(t *testing.T, status int, body []byte) *ImageServer {
	t.Helper()

	s := &ImageServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

// Requests returns the number of requests served so far.
func (s *ImageServer) Requests() int {
	return int(s.requests.Load())
}
