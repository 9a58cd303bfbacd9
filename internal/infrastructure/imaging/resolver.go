// Package imaging resolves document image references into memory ahead of
// rendering. The drawing surface is stateful and single-threaded, so all
// fetch I/O completes here, before the first drawing instruction.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	// Embeddable formats; registration is what lets Validate decode them.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"

	"github.com/quotedesk/backend/internal/domain/proposal"
)

// DefaultMaxImageBytes caps a single fetched image.
const DefaultMaxImageBytes = 8 << 20

// DefaultFetchTimeout bounds one remote fetch.
const DefaultFetchTimeout = 10 * time.Second

// Resolver fetches image references concurrently: remote references over
// HTTP, legacy relative paths from the configured asset directory. It is
// stateless between calls and safe for concurrent use.
type Resolver struct {
	client   *http.Client
	assetDir string
	maxBytes int64
	logger   *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// WithMaxImageBytes caps the size of a single fetched image.
func WithMaxImageBytes(n int64) Option {
	return func(r *Resolver) {
		r.maxBytes = n
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver. assetDir is the root for legacy relative
// references; an empty assetDir makes every local reference fail closed.
func NewResolver(assetDir string, opts ...Option) *Resolver {
	r := &Resolver{
		client:   &http.Client{Timeout: DefaultFetchTimeout},
		assetDir: assetDir,
		maxBytes: DefaultMaxImageBytes,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches every unique non-empty reference concurrently and
// returns a map with an entry for each one: the image bytes on success,
// nil on any failure. It never returns an error; a slow or failing
// reference degrades that image only. Undecodable payloads also map to
// nil so corrupt data can never reach the drawing surface.
func (r *Resolver) Resolve(ctx context.Context, refs []proposal.ImageRef) map[proposal.ImageRef][]byte {
	unique := make([]proposal.ImageRef, 0, len(refs))
	seen := make(map[proposal.ImageRef]struct{}, len(refs))
	for _, ref := range refs {
		if ref.IsZero() {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}

	// Fan out one fetch per unique reference. Each goroutine writes its
	// own slot, so no further synchronization is needed for the results.
	results := make([][]byte, len(unique))
	var wg sync.WaitGroup
	for i, ref := range unique {
		wg.Add(1)
		go func(i int, ref proposal.ImageRef) {
			defer wg.Done()
			data, err := r.fetch(ctx, ref)
			if err != nil {
				r.logger.Warn("image reference failed to resolve",
					zap.String("ref", string(ref)),
					zap.Error(err))
				return
			}
			results[i] = data
		}(i, ref)
	}
	wg.Wait()

	resolved := make(map[proposal.ImageRef][]byte, len(unique))
	for i, ref := range unique {
		resolved[ref] = results[i]
	}
	return resolved
}

func (r *Resolver) fetch(ctx context.Context, ref proposal.ImageRef) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if ref.IsRemote() {
		data, err = r.fetchRemote(ctx, string(ref))
	} else {
		data, err = r.readLocal(string(ref))
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Resolver) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("image exceeds %d byte limit", r.maxBytes)
	}
	return data, nil
}

// readLocal reads a legacy relative reference from the asset directory,
// refusing absolute paths and any path escaping the directory.
func (r *Resolver) readLocal(path string) ([]byte, error) {
	if r.assetDir == "" {
		return nil, errors.New("no asset directory configured")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || containsDotDot(path) {
		return nil, fmt.Errorf("invalid asset path %q", path)
	}

	full := filepath.Join(r.assetDir, clean)
	absBase, err := filepath.Abs(r.assetDir)
	if err != nil {
		return nil, fmt.Errorf("resolve asset dir: %w", err)
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return nil, fmt.Errorf("resolve asset path: %w", err)
	}
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return nil, fmt.Errorf("asset path %q escapes asset directory", path)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("image exceeds %d byte limit", r.maxBytes)
	}
	return data, nil
}

// Validate checks that the bytes decode as a supported raster format.
// The drawing surface's error state is sticky, so corrupt data must be
// rejected here rather than discovered mid-draw.
func Validate(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty image data")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("image has no extent")
	}
	return nil
}

// containsDotDot reports whether any raw path component is "..".
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(c rune) bool {
		return c == '/' || c == filepath.Separator
	})
	return slices.Contains(parts, "..")
}
