package likestate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	hasLiked    bool
	hasLikedErr error
	result      Result
	toggleErr   error
	block       bool
	calls       int
}

func (f *fakeClient) Toggle(ctx context.Context, ref Ref) (Result, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return Result{}, ctx.Err()
	}
	return f.result, f.toggleErr
}

func (f *fakeClient) HasLiked(ctx context.Context, ref Ref) (bool, error) {
	return f.hasLiked, f.hasLikedErr
}

var ref = Ref{ContentType: "news", ContentID: "42"}

func TestMountReconcilesAnonymous(t *testing.T) {
	client := &fakeClient{hasLiked: true}
	c := NewController(ref, client, Options{InitialCount: 12, InitialLiked: false, Anonymous: true})

	var seen []State
	c.OnChange = func(s State) { seen = append(seen, s) }

	s := c.Mount(context.Background())
	assert.True(t, s.Liked)
	assert.Equal(t, int64(12), s.Count)
	assert.Equal(t, Settled, s.Phase)
	require.Len(t, seen, 1)
	assert.Zero(t, client.calls, "no interaction needed")
}

func TestMountSkipsAuthenticated(t *testing.T) {
	client := &fakeClient{hasLiked: true}
	c := NewController(ref, client, Options{InitialCount: 1, InitialLiked: false})
	assert.False(t, c.Mount(context.Background()).Liked)
}

func TestMountFailureKeepsRenderedState(t *testing.T) {
	client := &fakeClient{hasLikedErr: errors.New("offline")}
	c := NewController(ref, client, Options{InitialCount: 2, Anonymous: true})
	s := c.Mount(context.Background())
	assert.Equal(t, State{Phase: Settled, Count: 2}, s)
}

func TestToggleShowsOptimisticThenServerTruth(t *testing.T) {
	client := &fakeClient{result: Result{Liked: true, Count: 9}}
	c := NewController(ref, client, Options{InitialCount: 4})

	var seen []State
	c.OnChange = func(s State) { seen = append(seen, s) }

	s := c.Toggle(context.Background())
	require.Len(t, seen, 2)
	assert.Equal(t, State{Phase: Optimistic, Count: 5, Liked: true}, seen[0])
	assert.Equal(t, State{Phase: Settled, Count: 9, Liked: true}, s)
}

func TestToggleFailureReverts(t *testing.T) {
	client := &fakeClient{toggleErr: &APIError{Status: 500, Kind: "persistence_error", Message: "Terjadi kesalahan, silakan coba lagi."}}
	c := NewController(ref, client, Options{InitialCount: 4, InitialLiked: true})

	s := c.Toggle(context.Background())
	assert.Equal(t, Settled, s.Phase)
	assert.Equal(t, int64(4), s.Count)
	assert.True(t, s.Liked)
	assert.True(t, s.Retry)
	assert.Equal(t, "Terjadi kesalahan, silakan coba lagi.", s.Message)
}

func TestToggleTimeoutReverts(t *testing.T) {
	client := &fakeClient{block: true}
	c := NewController(ref, client, Options{InitialCount: 4, Timeout: 20 * time.Millisecond})

	s := c.Toggle(context.Background())
	assert.Equal(t, Settled, s.Phase)
	assert.False(t, s.Liked)
	assert.True(t, s.Retry)
	assert.Equal(t, "Waktu habis, coba lagi.", s.Message)
}

func TestToggleDeadlineExpiresPendingToggle(t *testing.T) {
	client := &fakeClient{toggleErr: context.DeadlineExceeded}
	c := NewController(ref, client, Options{InitialCount: 4, Timeout: time.Second})

	// every clock read is a second later than the last
	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	ticks := 0
	c.now = func() time.Time {
		ticks++
		return start.Add(time.Duration(ticks) * time.Second)
	}

	s := c.Toggle(context.Background())
	assert.Equal(t, State{Phase: Settled, Count: 4, Retry: true, Message: "Waktu habis, coba lagi."}, s)
	assert.Equal(t, 2, ticks, "Begin and Expire both read the clock")
}

func TestToggleParentDeadlineStillReverts(t *testing.T) {
	client := &fakeClient{block: true}
	c := NewController(ref, client, Options{InitialCount: 4, InitialLiked: true, Timeout: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	s := c.Toggle(ctx)
	assert.Equal(t, Settled, s.Phase)
	assert.True(t, s.Liked)
	assert.Equal(t, int64(4), s.Count)
	assert.True(t, s.Retry)
	assert.Equal(t, "Waktu habis, coba lagi.", s.Message)
}
