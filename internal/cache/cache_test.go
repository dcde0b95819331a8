package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "page:/news/42", Key("/news/42"))
	assert.Equal(t, "page:/news/42", Key("/news/42/"))
	assert.Equal(t, "page:/news/42", Key("news/42?ref=home"))
	assert.Equal(t, "page:/", Key("/"))
}

func TestRevalidate(t *testing.T) {
	c := New(10, time.Minute)
	c.Set("/news/42", "render")
	c.Set("/news/43", "other")

	require.Equal(t, "render", c.Get("/news/42/"))

	c.Revalidate("/news/42")
	assert.Nil(t, c.Get("/news/42"))
	assert.Equal(t, "other", c.Get("/news/43"))

	// unknown path is a no-op
	c.Revalidate("/waste-bank/1")
	assert.Equal(t, 1, c.Len())
}

func TestExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	c := New(10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("/", "home")
	assert.Equal(t, "home", c.Get("/"))

	now = now.Add(2 * time.Minute)
	assert.Nil(t, c.Get("/"))
	assert.Equal(t, 0, c.Len())
}
