package crawl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFillsZeroWaitsPerField(t *testing.T) {
	d := DefaultWaits()

	t.Run("scrolls alone keeps the timeout defaults", func(t *testing.T) {
		c := New(nil, Waits{Scrolls: 5})
		assert.Equal(t, d.NavTimeout, c.waits.NavTimeout)
		assert.Equal(t, d.Settle, c.waits.Settle)
		assert.Equal(t, d.AfterSearch, c.waits.AfterSearch)
		assert.Equal(t, d.ScrollPause, c.waits.ScrollPause)
		assert.Equal(t, 5, c.waits.Scrolls)
	})

	t.Run("configured fields survive defaulting", func(t *testing.T) {
		c := New(nil, Waits{NavTimeout: 30 * time.Second, Settle: time.Second})
		assert.Equal(t, 30*time.Second, c.waits.NavTimeout)
		assert.Equal(t, time.Second, c.waits.Settle)
		assert.Equal(t, d.AfterSearch, c.waits.AfterSearch)
		assert.Equal(t, d.Scrolls, c.waits.Scrolls)
	})

	t.Run("all zero gets all defaults", func(t *testing.T) {
		c := New(nil, Waits{})
		assert.Equal(t, d, c.waits)
	})
}
