package loader

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// collect drains l until n results arrived or the deadline passes.
func collect(t *testing.T, l Loader, n int) []Result {
	t.Helper()
	var out []Result
	require.Eventually(t, func() bool {
		out = append(out, l.Drain()...)
		return len(out) >= n
	}, 5*time.Second, 5*time.Millisecond)
	return out
}

func TestLoadDecodesImage(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "pano.png", 64, 32)

	l := NewLoader(BackendTypeImage)
	defer l.Close()

	l.Load(3, path)
	results := collect(t, l, 1)

	require.Len(t, results, 1)
	r := results[0]
	require.NoError(t, r.Err)
	assert.Equal(t, 3, r.Index)
	assert.Equal(t, path, r.Path)
	assert.Equal(t, uint32(64), r.Texture.Width)
	assert.Equal(t, uint32(32), r.Texture.Height)
	assert.Len(t, r.Texture.Pixels, 64*32*4)
	assert.Zero(t, l.Pending())
}

func TestLoadDownscalesLargeImages(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "big.png", 200, 100)

	l := NewLoader(BackendTypeImage, WithMaxTextureSize(50))
	defer l.Close()

	l.Load(0, path)
	r := collect(t, l, 1)[0]
	require.NoError(t, r.Err)
	assert.Equal(t, uint32(50), r.Texture.Width)
	assert.Equal(t, uint32(25), r.Texture.Height)
}

func TestLoadFailureIsReported(t *testing.T) {
	l := NewLoader(BackendTypeImage)
	defer l.Close()

	l.Load(1, filepath.Join(t.TempDir(), "missing.jpg"))
	r := collect(t, l, 1)[0]

	assert.Error(t, r.Err)
	assert.True(t, r.Texture.Empty())
	assert.Equal(t, 1, r.Index)
}

func TestDrainReturnsCompletionOrder(t *testing.T) {
	release := make(chan struct{})
	decode := func(path string, _ int) (common.TextureStagingData, error) {
		if path == "slow.jpg" {
			<-release
		}
		return common.TextureStagingData{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1}, nil
	}

	l := NewLoader(BackendTypeImage, WithDecoder(decode), WithCacheSize(4))
	defer l.Close()

	// warm the cache so the second request completes without the pool
	l.Load(1, "fast.jpg")
	collect(t, l, 1)

	l.Load(0, "slow.jpg")
	l.Load(1, "fast.jpg")

	first := collect(t, l, 1)
	require.Len(t, first, 1)
	assert.Equal(t, 1, first[0].Index)
	assert.True(t, first[0].Cached)
	assert.Equal(t, 1, l.Pending())

	close(release)
	second := collect(t, l, 1)
	require.Len(t, second, 1)
	assert.Equal(t, 0, second[0].Index)
}

func TestCacheServesRepeatLoads(t *testing.T) {
	var decodes atomic.Int32
	decode := func(path string, _ int) (common.TextureStagingData, error) {
		decodes.Add(1)
		return common.TextureStagingData{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1}, nil
	}

	l := NewLoader(BackendTypeImage, WithDecoder(decode), WithCacheSize(2))
	defer l.Close()

	l.Load(0, "a.jpg")
	collect(t, l, 1)
	l.Load(0, "a.jpg")
	r := collect(t, l, 1)[0]

	assert.True(t, r.Cached)
	assert.Equal(t, int32(1), decodes.Load())
}

func TestFailuresAreNotCached(t *testing.T) {
	var decodes atomic.Int32
	decode := func(path string, _ int) (common.TextureStagingData, error) {
		decodes.Add(1)
		return common.TextureStagingData{}, errors.New("boom")
	}

	l := NewLoader(BackendTypeImage, WithDecoder(decode))
	defer l.Close()

	l.Load(0, "a.jpg")
	collect(t, l, 1)
	l.Load(0, "a.jpg")
	r := collect(t, l, 1)[0]

	assert.False(t, r.Cached)
	assert.ErrorContains(t, r.Err, "boom")
	assert.Equal(t, int32(2), decodes.Load())
}

func TestReadyNotifies(t *testing.T) {
	decode := func(path string, _ int) (common.TextureStagingData, error) {
		return common.TextureStagingData{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1}, nil
	}
	l := NewLoader(BackendTypeImage, WithDecoder(decode))
	defer l.Close()

	l.Load(0, "a.jpg")
	select {
	case <-l.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("no ready notification")
	}
	assert.Len(t, l.Drain(), 1)
	assert.Nil(t, l.Drain())
}

func TestCloseWaitsAndRejects(t *testing.T) {
	decode := func(path string, _ int) (common.TextureStagingData, error) {
		time.Sleep(20 * time.Millisecond)
		return common.TextureStagingData{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1}, nil
	}
	l := NewLoader(BackendTypeImage, WithDecoder(decode))

	l.Load(0, "a.jpg")
	l.Close()
	assert.Zero(t, l.Pending())
	assert.Len(t, l.Drain(), 1)

	l.Load(1, "b.jpg")
	assert.Zero(t, l.Pending())
	assert.Nil(t, l.Drain())
	l.Close()
}

func TestCloseStopsWorkers(t *testing.T) {
	decode := func(path string, _ int) (common.TextureStagingData, error) {
		return common.TextureStagingData{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1}, nil
	}
	baseline := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		l := NewLoader(BackendTypeImage, WithDecoder(decode), WithWorkers(4), WithCacheSize(0))
		l.Load(0, "a.jpg")
		l.Load(1, "b.jpg")
		l.Close()
		require.Len(t, l.Drain(), 2)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, 2*time.Second, 10*time.Millisecond, "worker goroutines still running after Close")
}

func TestTextureCacheEvictsOldest(t *testing.T) {
	c := newTextureCache(2)
	tex := common.TextureStagingData{Pixels: []byte{1}, Width: 1, Height: 1}

	c.put("a", tex)
	c.put("b", tex)
	c.put("a", tex)
	c.put("c", tex)

	_, okA := c.get("a")
	_, okB := c.get("b")
	_, okC := c.get("c")
	assert.False(t, okA)
	assert.True(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, c.len())

	disabled := newTextureCache(0)
	disabled.put("a", tex)
	assert.Zero(t, disabled.len())
}
