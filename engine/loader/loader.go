package loader

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/rs/zerolog"
)

// LoaderBackendType identifies the decoder backend to use.
type LoaderBackendType int

const (
	// BackendTypeImage selects the JPEG/PNG/WebP image backend.
	BackendTypeImage LoaderBackendType = iota
)

// Result is one completed texture load.
type Result struct {
	// Index is the image index the load was requested for.
	Index int
	// Path is the image path.
	Path string
	// Texture holds the decoded RGBA pixels. Empty when Err is set.
	Texture common.TextureStagingData
	// Err is the decode error, if any.
	Err error
	// Cached reports whether the result came from the decode cache.
	Cached bool
	// Elapsed is the time between the request and completion.
	Elapsed time.Duration
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	backend loaderBackend
	pool    worker.DynamicWorkerPool
	workers int
	logger  zerolog.Logger

	maxTextureSize int
	cache          *textureCache

	// completed holds finished loads in completion order until drained.
	completed []Result
	ready     chan struct{}
	pending   int
	nextID    int
	inFlight  sync.WaitGroup
	closed    bool
}

// Loader decodes panorama images in the background. Load requests are fire-and-forget: the
// decode runs on a worker pool and its Result is queued until the event loop calls Drain.
// There is no cancellation and no retry; a failed load is logged and reported once.
type Loader interface {
	// Load queues a decode of the image at path for the given tour index and returns immediately.
	// Loads requested after Close are ignored.
	//
	// Parameters:
	//   - index: the tour index the image belongs to
	//   - path: the image file path
	Load(index int, path string)

	// Drain returns all results completed since the last call, in completion order.
	// It never blocks.
	//
	// Returns:
	//   - []Result: the completed results, nil if none
	Drain() []Result

	// Ready returns a channel that receives a value whenever new results are queued.
	// At most one notification is buffered.
	//
	// Returns:
	//   - <-chan struct{}: the notification channel
	Ready() <-chan struct{}

	// Pending returns the number of requested loads that have not completed yet.
	//
	// Returns:
	//   - int: the in-flight load count
	Pending() int

	// Close stops accepting loads and waits for in-flight decodes to finish.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of decoder backend to use (e.g., BackendTypeImage)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:        2,
		logger:         zerolog.Nop(),
		maxTextureSize: 8192,
		cache:          newTextureCache(4),
		ready:          make(chan struct{}, 1),
	}

	switch backendType {
	case BackendTypeImage:
		l.backend = newImageLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	l.workers = max(1, l.workers)
	l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(index int, path string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Warn().Int("index", index).Str("path", path).Msg("load requested after close")
		return
	}
	l.pending++
	id := l.nextID
	l.nextID++
	l.inFlight.Add(1)
	l.mu.Unlock()

	requested := time.Now()
	l.logger.Debug().Int("index", index).Str("path", path).Msg("texture load requested")

	if tex, ok := l.cache.get(path); ok {
		l.complete(Result{Index: index, Path: path, Texture: tex, Cached: true, Elapsed: time.Since(requested)})
		return
	}

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			tex, err := l.backend.Decode(path, l.maxTextureSize)
			if err != nil {
				err = fmt.Errorf("failed to load texture %d: %w", index, err)
			} else {
				l.cache.put(path, tex)
			}
			l.complete(Result{Index: index, Path: path, Texture: tex, Err: err, Elapsed: time.Since(requested)})
			return nil, err
		},
	})
}

// complete queues a result, logs it and wakes any Ready waiter.
func (l *loader) complete(r Result) {
	if r.Err != nil {
		l.logger.Error().Err(r.Err).Int("index", r.Index).Str("path", r.Path).Msg("texture load failed")
	} else {
		l.logger.Debug().
			Int("index", r.Index).
			Str("path", r.Path).
			Uint32("width", r.Texture.Width).
			Uint32("height", r.Texture.Height).
			Bool("cached", r.Cached).
			Dur("elapsed", r.Elapsed).
			Msg("texture loaded")
	}

	l.mu.Lock()
	l.completed = append(l.completed, r)
	l.pending--
	l.mu.Unlock()
	l.inFlight.Done()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *loader) Drain() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.completed) == 0 {
		return nil
	}
	out := l.completed
	l.completed = nil
	return out
}

func (l *loader) Ready() <-chan struct{} {
	return l.ready
}

func (l *loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()
	l.inFlight.Wait()

	l.pool.Stop()
	// Stop hands out worker ids on one shared channel and a worker that reads another's id keeps
	// running, so every worker is also given a task that ends its goroutine.
	for i := range l.workers {
		l.pool.SubmitTask(worker.Task{
			ID: -1 - i,
			Do: func() (any, error) {
				runtime.Goexit()
				return nil, nil
			},
		})
	}
	l.logger.Debug().Int("workers", l.workers).Msg("loader closed")
}
