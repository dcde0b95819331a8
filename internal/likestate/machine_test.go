package likestate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeginConfirm(t *testing.T) {
	m := NewMachine(3, false, time.Second)
	now := time.Now()

	s, ok := m.Begin(now)
	assert.True(t, ok)
	assert.Equal(t, State{Phase: Optimistic, Count: 4, Liked: true}, s)

	// second click while pending is ignored
	s, ok = m.Begin(now)
	assert.False(t, ok)
	assert.Equal(t, int64(4), s.Count)

	// another tab liked meanwhile: server truth wins over the guess
	s = m.Confirm(5, true)
	assert.Equal(t, State{Phase: Settled, Count: 5, Liked: true}, s)

	s, _ = m.Begin(now)
	assert.Equal(t, State{Phase: Optimistic, Count: 4, Liked: false}, s)
}

func TestUnlikeNeverGoesNegative(t *testing.T) {
	m := NewMachine(0, true, time.Second)
	s, _ := m.Begin(time.Now())
	assert.Equal(t, int64(0), s.Count)
	assert.False(t, s.Liked)
}

func TestRevertAndExpire(t *testing.T) {
	start := time.Now()
	m := NewMachine(10, false, 2*time.Second)

	m.Begin(start)
	_, expired := m.Expire(start.Add(time.Second))
	assert.False(t, expired)

	s, expired := m.Expire(start.Add(3 * time.Second))
	assert.True(t, expired)
	assert.Equal(t, Settled, s.Phase)
	assert.Equal(t, int64(10), s.Count)
	assert.False(t, s.Liked)
	assert.True(t, s.Retry)

	// retry starts a fresh optimistic toggle
	s, ok := m.Begin(start.Add(4 * time.Second))
	assert.True(t, ok)
	assert.False(t, s.Retry)

	s = m.Revert("gagal")
	assert.Equal(t, "gagal", s.Message)
	assert.Equal(t, int64(10), s.Count)
}

func TestResolveKeepsCount(t *testing.T) {
	m := NewMachine(7, false, time.Second)
	s := m.Resolve(true)
	assert.Equal(t, State{Phase: Settled, Count: 7, Liked: true}, s)

	// answer arriving while a toggle is pending only updates the settled state
	m = NewMachine(7, false, time.Second)
	m.Begin(time.Now())
	s = m.Resolve(true)
	assert.Equal(t, Optimistic, s.Phase)
	s = m.Revert("x")
	assert.True(t, s.Liked)
	assert.Equal(t, int64(7), s.Count)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "settled", Settled.String())
	assert.Equal(t, "optimistic", Optimistic.String())
}
