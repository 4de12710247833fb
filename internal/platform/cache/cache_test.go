package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGet(t *testing.T) {
	c := NewMemory()

	_, ok := c.Get("books", "1")
	assert.False(t, ok)

	c.Put("books", "1", "dune")
	v, ok := c.Get("books", "1")
	assert.True(t, ok)
	assert.Equal(t, "dune", v)

	// Same key in another family is a different entry.
	_, ok = c.Get("authors", "1")
	assert.False(t, ok)
}

func TestEvictKey(t *testing.T) {
	c := NewMemory()
	c.Put("books", "1", "dune")
	c.Put("books", "2", "solaris")

	c.EvictKey("books", "1")

	_, ok := c.Get("books", "1")
	assert.False(t, ok)
	_, ok = c.Get("books", "2")
	assert.True(t, ok)

	// Evicting an absent key or family is a no-op.
	c.EvictKey("books", "99")
	c.EvictKey("nope", "1")
}

func TestEvictFamily(t *testing.T) {
	c := NewMemory()
	c.Put("books", "1", "dune")
	c.Put("books", "2", "solaris")
	c.Put("authors", "1", "herbert")

	c.EvictFamily("books")

	_, ok := c.Get("books", "1")
	assert.False(t, ok)
	_, ok = c.Get("books", "2")
	assert.False(t, ok)

	// Other families are untouched.
	v, ok := c.Get("authors", "1")
	assert.True(t, ok)
	assert.Equal(t, "herbert", v)
}

func TestOverwrite(t *testing.T) {
	c := NewMemory()
	c.Put("books", "1", "first")
	c.Put("books", "1", "second")

	v, ok := c.Get("books", "1")
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestConcurrentAccess(t *testing.T) {
	c := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("%d", j%10)
				c.Put("f", key, n)
				c.Get("f", key)
				if j%25 == 0 {
					c.EvictKey("f", key)
				}
				if j%50 == 0 {
					c.EvictFamily("f")
				}
			}
		}(i)
	}
	wg.Wait()
}
