// Package resource resolves logical paths to readable content. Paths are
// looked up on the filesystem, then in the bundled assets, then under each
// search-path directory. Successful resolutions are cached; failures never are.
package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imposter-project/imposter-gateway/internal/assets"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
	"golang.org/x/sync/singleflight"
)

const DefaultCapacity = 2048

// ErrNotFound is returned when no strategy can resolve a path
var ErrNotFound = errors.New("resource not found")

// Kind identifies where a handle's content lives
type Kind int

const (
	KindFile Kind = iota
	KindBundled
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindBundled:
		return "bundled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Handle is an immutable reference to resolved content
type Handle struct {
	URL  *url.URL
	Kind Kind

	name   string
	bundle fs.FS
}

// Open opens the content behind the handle
func (h *Handle) Open() (io.ReadCloser, error) {
	if h.Kind == KindBundled {
		return h.bundle.Open(h.name)
	}
	return os.Open(h.name)
}

func (h *Handle) String() string {
	return h.URL.String()
}

type Option func(*Resolver)

// WithCapacity bounds the number of cached handles
func WithCapacity(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithBundle replaces the bundled assets
func WithBundle(bundle fs.FS) Option {
	return func(r *Resolver) {
		r.bundle = bundle
	}
}

// WithSearchPath sets the directories tried after the filesystem and the bundle
func WithSearchPath(dirs ...string) Option {
	return func(r *Resolver) {
		r.searchPath = append([]string(nil), dirs...)
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithClock sets the clock read once at construction for the start timestamp
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.clock = now
	}
}

// Resolver maps logical paths to handles. It is safe for concurrent use; the
// cache is its only shared state.
type Resolver struct {
	capacity   int
	bundle     fs.FS
	searchPath []string
	metrics    *Metrics
	clock      func() time.Time
	started    time.Time

	cache  *cache
	flight singleflight.Group
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		capacity: DefaultCapacity,
		bundle:   assets.Bundle(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.started = r.clock()
	r.cache = newCache(r.capacity, func(path string) {
		r.metrics.evicted()
		logger.Tracef("evicted resource handle: %s", path)
	})
	return r
}

// Resolve returns the handle for path. On a miss, a path with a leading
// separator that cannot be resolved is retried once without it. The result
// is cached under the path as given.
func (r *Resolver) Resolve(path string) (*Handle, bool) {
	if h, ok := r.cache.get(path); ok {
		r.metrics.hit()
		return h, true
	}
	r.metrics.miss()

	v, err, _ := r.flight.Do(path, func() (interface{}, error) {
		if h, ok := r.cache.get(path); ok {
			return h, nil
		}
		h := r.locate(path)
		if h == nil && len(path) > 1 && strings.HasPrefix(path, "/") {
			h = r.locate(path[1:])
		}
		if h == nil {
			return nil, ErrNotFound
		}
		r.cache.add(path, h)
		r.metrics.setEntries(r.cache.len())
		logger.Tracef("resolved %s to %s", path, h)
		return h, nil
	})
	if err != nil {
		r.metrics.failure()
		return nil, false
	}
	return v.(*Handle), true
}

// locate tries each strategy in order
func (r *Resolver) locate(path string) *Handle {
	if path == "" {
		return nil
	}
	if h := fileHandle(path); h != nil {
		return h
	}
	if !fs.ValidPath(path) {
		return nil
	}
	if r.bundle != nil {
		if info, err := fs.Stat(r.bundle, path); err == nil && !info.IsDir() {
			return &Handle{
				URL:    &url.URL{Scheme: "bundle", Opaque: path},
				Kind:   KindBundled,
				name:   path,
				bundle: r.bundle,
			}
		}
	}
	for _, dir := range r.searchPath {
		if h := fileHandle(filepath.Join(dir, filepath.FromSlash(path))); h != nil {
			return h
		}
	}
	return nil
}

func fileHandle(name string) *Handle {
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil
	}
	return &Handle{
		URL:  &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)},
		Kind: KindFile,
		name: abs,
	}
}

// IsReadable reports whether path resolves
func (r *Resolver) IsReadable(path string) bool {
	_, ok := r.Resolve(path)
	return ok
}

// Size returns the size in bytes of a filesystem-backed resource, or -1 when
// the size is unknown.
func (r *Resolver) Size(path string) int64 {
	h, ok := r.Resolve(path)
	if !ok || h.Kind != KindFile {
		return -1
	}
	info, err := os.Stat(h.name)
	if err != nil {
		return -1
	}
	return info.Size()
}

// LastModified returns the modification time of a filesystem-backed
// resource. Anything else reports the time the resolver was created.
func (r *Resolver) LastModified(path string) time.Time {
	h, ok := r.Resolve(path)
	if !ok || h.Kind != KindFile {
		return r.started
	}
	info, err := os.Stat(h.name)
	if err != nil {
		return r.started
	}
	return info.ModTime()
}

// Open resolves path and opens its content
func (r *Resolver) Open(path string) (io.ReadCloser, error) {
	h, ok := r.Resolve(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return h.Open()
}

// ReadAll returns the full content of path. Any failure is logged and yields
// an empty slice.
func (r *Resolver) ReadAll(path string) []byte {
	rc, err := r.Open(path)
	if err != nil {
		logger.Warnf("unable to load file: %s", path)
		return []byte{}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		logger.Warnf("unable to load file: %s", path)
		return []byte{}
	}
	return data
}

// Started returns the resolver's creation time
func (r *Resolver) Started() time.Time {
	return r.started
}
