package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPercentFromPlayback(t *testing.T) {
	tests := []struct {
		elapsed, total time.Duration
		want           int
	}{
		{0, time.Minute, 0},
		{27 * time.Second, time.Minute, 45},
		{299 * time.Millisecond, time.Second, 30},
		{996 * time.Millisecond, time.Second, 100},
		{2 * time.Minute, time.Minute, 100},
		{10 * time.Second, 0, 0},
		{-time.Second, time.Minute, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PercentFromPlayback(tt.elapsed, tt.total), "%v of %v", tt.elapsed, tt.total)
	}
}

func TestResumePosition(t *testing.T) {
	assert.Equal(t, 45*time.Second, ResumePosition(45, 100*time.Second))
	assert.Equal(t, time.Duration(0), ResumePosition(0, time.Minute))
	assert.Equal(t, time.Duration(0), ResumePosition(100, time.Minute), "completed modules start over")
	assert.Equal(t, time.Duration(0), ResumePosition(50, 0))
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 5, c.Len())
	assert.True(t, c.Contains(1))
	assert.True(t, c.Contains(5))
	assert.False(t, c.Contains(0))
	assert.False(t, c.Contains(6))

	m, ok := c.Lookup(3)
	assert.True(t, ok)
	assert.Equal(t, "Cultivating A Teachable Spirit", m.Title)
	audio, ok := m.Audio()
	assert.True(t, ok)
	assert.Equal(t, "Hope For Restoration", audio.Title)

	_, ok = c.Lookup(9)
	assert.False(t, ok)

	big := NewCatalog(7)
	assert.Equal(t, 7, big.Len())
	m, _ = big.Lookup(7)
	assert.Equal(t, "Module 7", m.Title)
	_, ok = m.Audio()
	assert.False(t, ok)

	assert.Equal(t, 5, NewCatalog(0).Len())
	assert.Len(t, NewCatalog(2).Modules(), 2)
}
