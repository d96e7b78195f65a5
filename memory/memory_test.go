package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_AddTurnAndStatistics(t *testing.T) {
	c := New()

	stats := c.GetStatistics()
	assert.Equal(t, 0, stats.TotalTurns)

	c.AddTurn("hi", "hello")
	c.AddTurn("how are you", "good")

	stats = c.GetStatistics()
	assert.Equal(t, 2, stats.TotalTurns)
	assert.Equal(t, 4, stats.TotalMessages)
	assert.Equal(t, 2, stats.ActiveTurns)
}

func TestConversation_GetRecent(t *testing.T) {
	c := New()
	for i := 0; i < 5; i++ {
		c.AddTurn("u", "a")
	}

	recent := c.GetRecent(2)
	assert.Len(t, recent, 2)

	all := c.GetRecent(0)
	assert.Len(t, all, 5)

	more := c.GetRecent(100)
	assert.Len(t, more, 5)
}

func TestConversation_Clear(t *testing.T) {
	c := New()
	c.AddTurn("u", "a")
	c.Clear()

	stats := c.GetStatistics()
	assert.Equal(t, 0, stats.TotalTurns)
	assert.Empty(t, c.GetRecent(0))
}

func TestConversation_OrderPreserved(t *testing.T) {
	c := New()
	c.AddTurn("first", "1")
	c.AddTurn("second", "2")
	c.AddTurn("third", "3")

	turns := c.GetRecent(0)
	assert.Equal(t, "first", turns[0].User)
	assert.Equal(t, "third", turns[2].User)
}
