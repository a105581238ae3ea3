package loader

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
)

// textureCache is a bounded FIFO cache of decoded textures keyed by path.
// A capacity of zero disables caching.
type textureCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string]common.TextureStagingData
}

func newTextureCache(capacity int) *textureCache {
	return &textureCache{
		capacity: max(0, capacity),
		entries:  make(map[string]common.TextureStagingData),
	}
}

func (c *textureCache) get(path string) (common.TextureStagingData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tex, ok := c.entries[path]
	return tex, ok
}

func (c *textureCache) put(path string, tex common.TextureStagingData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capacity == 0 {
		return
	}
	if _, ok := c.entries[path]; ok {
		c.entries[path] = tex
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, path)
	c.entries[path] = tex
}

func (c *textureCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
