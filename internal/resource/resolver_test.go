package resource

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/imposter-project/imposter-gateway/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	defaults := []Option{
		WithBundle(fstest.MapFS{
			"www/bundled.txt": &fstest.MapFile{Data: []byte("from the bundle")},
			"www/dir/x.txt":   &fstest.MapFile{Data: []byte("x")},
		}),
		WithClock(func() time.Time { return testStart }),
	}
	return NewResolver(append(defaults, opts...)...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestResolve_Filesystem(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "page.html")
	writeFile(t, file, "<p>hi</p>")
	modTime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(file, modTime, modTime))

	r := newTestResolver(t)
	h, ok := r.Resolve(file)
	require.True(t, ok)
	assert.Equal(t, KindFile, h.Kind)
	assert.Equal(t, "file", h.URL.Scheme)

	assert.True(t, r.IsReadable(file))
	assert.Equal(t, int64(9), r.Size(file))
	assert.True(t, r.LastModified(file).Equal(modTime))
	assert.Equal(t, "<p>hi</p>", string(r.ReadAll(file)))
}

func TestResolve_Bundle(t *testing.T) {
	r := newTestResolver(t)

	h, ok := r.Resolve("www/bundled.txt")
	require.True(t, ok)
	assert.Equal(t, KindBundled, h.Kind)
	assert.Equal(t, "bundle:www/bundled.txt", h.String())

	assert.Equal(t, int64(-1), r.Size("www/bundled.txt"))
	assert.Equal(t, testStart, r.LastModified("www/bundled.txt"))
	assert.Equal(t, "from the bundle", string(r.ReadAll("www/bundled.txt")))
}

func TestResolve_BundleDirectoryIsNotResolvable(t *testing.T) {
	r := newTestResolver(t)
	assert.False(t, r.IsReadable("www/dir"))
}

func TestResolve_SearchPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(second, "conf", "app.yaml"), "second")
	writeFile(t, filepath.Join(first, "shared.txt"), "first")
	writeFile(t, filepath.Join(second, "shared.txt"), "second")

	r := newTestResolver(t, WithSearchPath(first, second))

	assert.Equal(t, "second", string(r.ReadAll("conf/app.yaml")))
	assert.Equal(t, "first", string(r.ReadAll("shared.txt")))
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "www", "bundled.txt"), "from disk")

	r := newTestResolver(t)
	h, ok := r.Resolve("www/bundled.txt")
	require.True(t, ok)
	assert.Equal(t, KindFile, h.Kind)
	assert.Equal(t, "from disk", string(r.ReadAll("www/bundled.txt")))
}

func TestResolve_Idempotent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.bin")
	writeFile(t, file, "payload")

	r := newTestResolver(t)
	for _, path := range []string{file, "www/bundled.txt"} {
		first, ok := r.Resolve(path)
		require.True(t, ok)
		second, ok := r.Resolve(path)
		require.True(t, ok)

		assert.Same(t, first, second)
		assert.Equal(t, r.ReadAll(path), r.ReadAll(path))
		assert.Equal(t, r.Size(path), r.Size(path))
		assert.Equal(t, r.LastModified(path), r.LastModified(path))
	}
}

func TestResolve_FailuresAreNotCached(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "later.txt")

	r := newTestResolver(t)
	_, ok := r.Resolve(file)
	require.False(t, ok)
	assert.Equal(t, 0, r.cache.len())

	writeFile(t, file, "now here")
	_, ok = r.Resolve(file)
	assert.True(t, ok)
	assert.Equal(t, "now here", string(r.ReadAll(file)))
}

func TestResolve_LeadingSeparatorFallback(t *testing.T) {
	r := newTestResolver(t)

	direct, ok := r.Resolve("www/bundled.txt")
	require.True(t, ok)

	viaFallback, ok := r.Resolve("/www/bundled.txt")
	require.True(t, ok)
	assert.Equal(t, direct.URL.String(), viaFallback.URL.String())

	_, cached := r.cache.get("/www/bundled.txt")
	assert.True(t, cached)
}

func TestResolve_FallbackCachesOnlyRequestedPath(t *testing.T) {
	r := newTestResolver(t)

	_, ok := r.Resolve("/www/bundled.txt")
	require.True(t, ok)

	_, cached := r.cache.get("www/bundled.txt")
	assert.False(t, cached)
	assert.Equal(t, 1, r.cache.len())
}

func TestResolve_LeadingSeparatorRetriedOnce(t *testing.T) {
	r := newTestResolver(t)
	assert.False(t, r.IsReadable("//www/bundled.txt"))
	assert.False(t, r.IsReadable("/"))
	assert.False(t, r.IsReadable(""))
}

func TestResolve_LeadingSeparatorRetriedOnceWhenWarm(t *testing.T) {
	r := newTestResolver(t)

	require.True(t, r.IsReadable("www/bundled.txt"))
	require.True(t, r.IsReadable("/www/bundled.txt"))

	assert.False(t, r.IsReadable("//www/bundled.txt"))
}

func TestResolve_Unresolvable(t *testing.T) {
	r := newTestResolver(t)
	path := "no/such/thing.txt"

	assert.False(t, r.IsReadable(path))
	assert.Equal(t, int64(-1), r.Size(path))
	assert.Equal(t, testStart, r.LastModified(path))

	data := r.ReadAll(path)
	assert.NotNil(t, data)
	assert.Empty(t, data)

	_, err := r.Open(path)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolve_DeletedAfterCaching(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "gone.txt")
	writeFile(t, file, "soon gone")

	r := newTestResolver(t)
	require.True(t, r.IsReadable(file))
	require.NoError(t, os.Remove(file))

	assert.Equal(t, int64(-1), r.Size(file))
	assert.Equal(t, testStart, r.LastModified(file))
	assert.Empty(t, r.ReadAll(file))
}

func TestResolve_CapacityBound(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a", "b", "c"} {
		file := filepath.Join(dir, name)
		writeFile(t, file, name)
		files = append(files, file)
	}

	r := newTestResolver(t, WithCapacity(2))
	for _, file := range files {
		require.True(t, r.IsReadable(file))
	}
	assert.Equal(t, 2, r.cache.len())
	_, cached := r.cache.get(files[0])
	assert.False(t, cached)

	// evicted entries resolve again
	assert.Equal(t, "a", string(r.ReadAll(files[0])))
}

func TestResolve_Concurrent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "shared.txt")
	writeFile(t, file, "shared")

	r := newTestResolver(t, WithCapacity(4))
	paths := []string{file, "www/bundled.txt", "/www/bundled.txt", "missing.txt"}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				path := paths[(i+j)%len(paths)]
				h, ok := r.Resolve(path)
				if path == "missing.txt" {
					assert.False(t, ok)
				} else if assert.True(t, ok) {
					assert.NotNil(t, h)
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, r.cache.len(), 4)
}

func TestOpen(t *testing.T) {
	r := newTestResolver(t)
	rc, err := r.Open("www/bundled.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "from the bundle", string(data))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := newTestResolver(t, WithMetrics(m))

	r.Resolve("www/bundled.txt")
	r.Resolve("www/bundled.txt")
	r.Resolve("missing.txt")
	r.Resolve("/missing.txt")
	r.Resolve("/www/bundled.txt")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.hits))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.misses))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.failures))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.entries))
}

func TestDefaultBundle(t *testing.T) {
	r := NewResolver()
	assert.True(t, r.IsReadable("/www/index.html"))
	assert.Equal(t, int64(-1), r.Size("www/index.html"))
}

func TestReadAll_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	r := newTestResolver(t)
	assert.Empty(t, r.ReadAll("nowhere/at/all.txt"))
	assert.Contains(t, buf.String(), "unable to load file: nowhere/at/all.txt")
	assert.Contains(t, buf.String(), "[WARN]")
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
