package cache

import (
	"log"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Revalidator marks the cached render of a page as stale.
type Revalidator interface {
	Revalidate(path string)
}

// item 包装缓存数据和过期时间
type item struct {
	Data      interface{}
	ExpiresAt time.Time
}

// PageCache 页面渲染数据的本地 LRU 缓存，按页面路径索引
type PageCache struct {
	lruCache *lru.Cache[string, item]
	ttl      time.Duration
	now      func() time.Time
}

// New creates a page cache holding up to size pages for ttl each.
func New(size int, ttl time.Duration) *PageCache {
	l, err := lru.New[string, item](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &PageCache{
		lruCache: l,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Key normalises a page path so "/news/42/", "/news/42?x=1" and "/news/42" share an entry.
func Key(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return "page:" + path
}

// Set 设置缓存
func (c *PageCache) Set(path string, data interface{}) {
	c.lruCache.Add(Key(path), item{
		Data:      data,
		ExpiresAt: c.now().Add(c.ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *PageCache) Get(path string) interface{} {
	key := Key(path)
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Revalidate 主动失效指定页面的缓存
func (c *PageCache) Revalidate(path string) {
	if c.lruCache.Remove(Key(path)) {
		log.Printf("[cache] revalidated %s", Key(path))
	}
}

// Len returns the number of cached pages, expired ones included.
func (c *PageCache) Len() int {
	return c.lruCache.Len()
}
