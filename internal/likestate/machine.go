// Package likestate is the optimistic presentation state of a like button:
// a confirmed Settled state and a locally guessed Optimistic state that is
// always replaced by the server's answer, never merged with it.
package likestate

import (
	"sync"
	"time"
)

type Phase int

const (
	Settled Phase = iota
	Optimistic
)

func (p Phase) String() string {
	if p == Optimistic {
		return "optimistic"
	}
	return "settled"
}

// State is what the button renders.
type State struct {
	Phase Phase
	Count int64
	Liked bool
	// Retry is set when the last toggle failed or timed out and the
	// button should offer to try again.
	Retry   bool
	Message string
}

const timeoutMessage = "Waktu habis, coba lagi."

// DefaultTimeout reverts a pending toggle that never resolves.
const DefaultTimeout = 8 * time.Second

// Machine holds the state of one content item's like button.
type Machine struct {
	mu        sync.Mutex
	settled   State
	current   State
	startedAt time.Time
	timeout   time.Duration
}

// NewMachine starts Settled with the server-rendered count and liked flag.
func NewMachine(count int64, liked bool, timeout time.Duration) *Machine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := State{Phase: Settled, Count: count, Liked: liked}
	return &Machine{settled: s, current: s, timeout: timeout}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Begin flips to Optimistic(count±1, !liked). It returns false, leaving the
// state alone, while another toggle is still pending.
func (m *Machine) Begin(now time.Time) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Phase == Optimistic {
		return m.current, false
	}
	next := State{Phase: Optimistic, Liked: !m.settled.Liked, Count: m.settled.Count}
	if next.Liked {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	m.current = next
	m.startedAt = now
	return m.current, true
}

// Confirm settles on the server's authoritative values.
func (m *Machine) Confirm(count int64, liked bool) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settled = State{Phase: Settled, Count: count, Liked: liked}
	m.current = m.settled
	return m.current
}

// Revert drops the optimistic guess and offers a retry.
func (m *Machine) Revert(message string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revert(message)
}

func (m *Machine) revert(message string) State {
	m.current = m.settled
	m.current.Retry = true
	m.current.Message = message
	return m.current
}

// Expire reverts a toggle that has been pending longer than the timeout.
func (m *Machine) Expire(now time.Time) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Phase != Optimistic || now.Sub(m.startedAt) < m.timeout {
		return m.current, false
	}
	return m.revert(timeoutMessage), true
}

// Resolve merges a mount-time hasLiked answer into the settled state without
// touching the count that came with the page. A pending optimistic state
// keeps rendering until its own answer arrives.
func (m *Machine) Resolve(hasLiked bool) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settled.Liked = hasLiked
	if m.current.Phase == Settled {
		m.current.Liked = hasLiked
	}
	return m.current
}
