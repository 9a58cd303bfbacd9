package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend/internal/domain/proposal"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResolver_RemoteAndLocal(t *testing.T) {
	valid := pngBytes(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(valid)
		case "/corrupt.png":
			w.Write([]byte("junk"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	assetDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(assetDir, "thumbs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(assetDir, "thumbs", "a.png"), valid, 0644))

	r := NewResolver(assetDir)

	refs := []proposal.ImageRef{
		proposal.ImageRef(srv.URL + "/ok.png"),
		proposal.ImageRef(srv.URL + "/corrupt.png"),
		proposal.ImageRef(srv.URL + "/missing.png"),
		"thumbs/a.png",
		"thumbs/nope.png",
		"", // absent, skipped entirely
	}
	got := r.Resolve(context.Background(), refs)

	require.Len(t, got, 5, "every unique non-empty ref has an entry")
	assert.Equal(t, valid, got[proposal.ImageRef(srv.URL+"/ok.png")])
	assert.Nil(t, got[proposal.ImageRef(srv.URL+"/corrupt.png")], "undecodable payload degrades to nil")
	assert.Nil(t, got[proposal.ImageRef(srv.URL+"/missing.png")])
	assert.Equal(t, valid, got[proposal.ImageRef("thumbs/a.png")])
	assert.Nil(t, got[proposal.ImageRef("thumbs/nope.png")])
}

func TestResolver_DeduplicatesFetches(t *testing.T) {
	valid := pngBytes(t)
	hits := make(chan struct{}, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		w.Write(valid)
	}))
	defer srv.Close()

	ref := proposal.ImageRef(srv.URL + "/shared.png")
	got := NewResolver("").Resolve(context.Background(),
		[]proposal.ImageRef{ref, ref, ref, ref})

	require.Len(t, got, 1)
	assert.Equal(t, valid, got[ref])
	assert.Len(t, hits, 1, "shared reference fetched once")
}

func TestResolver_SlowReferenceDoesNotBlockOthers(t *testing.T) {
	valid := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow.png" {
			time.Sleep(200 * time.Millisecond)
		}
		w.Write(valid)
	}))
	defer srv.Close()

	r := NewResolver("", WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	fast := proposal.ImageRef(srv.URL + "/fast.png")
	slow := proposal.ImageRef(srv.URL + "/slow.png")

	got := r.Resolve(context.Background(), []proposal.ImageRef{fast, slow})
	assert.Equal(t, valid, got[fast])
	assert.Nil(t, got[slow], "timed-out fetch degrades, does not fail the call")
}

func TestResolver_PathTraversalBlocked(t *testing.T) {
	assetDir := t.TempDir()
	outside := filepath.Join(filepath.Dir(assetDir), "secret.png")
	require.NoError(t, os.WriteFile(outside, pngBytes(t), 0644))

	r := NewResolver(assetDir)

	for _, path := range []string{
		"../secret.png",
		"thumbs/../../secret.png",
		"/etc/passwd",
	} {
		got := r.Resolve(context.Background(), []proposal.ImageRef{proposal.ImageRef(path)})
		assert.Nil(t, got[proposal.ImageRef(path)], path)
	}
}

func TestResolver_SizeCap(t *testing.T) {
	valid := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(valid)
	}))
	defer srv.Close()

	r := NewResolver("", WithMaxImageBytes(8))
	ref := proposal.ImageRef(srv.URL + "/big.png")
	got := r.Resolve(context.Background(), []proposal.ImageRef{ref})
	assert.Nil(t, got[ref])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(pngBytes(t)))
	assert.Error(t, Validate(nil))
	assert.Error(t, Validate([]byte("junk")))
}
