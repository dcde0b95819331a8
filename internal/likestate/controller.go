package likestate

import (
	"context"
	"errors"
	"time"
)

// Ref identifies the content item a button belongs to.
type Ref struct {
	ContentType string
	ContentID   string
}

// Result is the server's answer to a toggle.
type Result struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// Client talks to the interaction API on behalf of one visitor.
type Client interface {
	Toggle(ctx context.Context, ref Ref) (Result, error)
	HasLiked(ctx context.Context, ref Ref) (bool, error)
}

// Controller drives a Machine from user actions and server answers.
type Controller struct {
	ref       Ref
	client    Client
	machine   *Machine
	anonymous bool
	now       func() time.Time

	// OnChange, when set, receives every rendered state.
	OnChange func(State)
}

// Options for NewController.
type Options struct {
	// InitialCount and InitialLiked come from the server-rendered page.
	InitialCount int64
	InitialLiked bool
	// Anonymous visitors cannot be recognised at render time, so their
	// liked flag is fetched on Mount.
	Anonymous bool
	Timeout   time.Duration
}

func NewController(ref Ref, client Client, opts Options) *Controller {
	return &Controller{
		ref:       ref,
		client:    client,
		machine:   NewMachine(opts.InitialCount, opts.InitialLiked, opts.Timeout),
		anonymous: opts.Anonymous,
		now:       time.Now,
	}
}

func (c *Controller) State() State {
	return c.machine.State()
}

func (c *Controller) emit(s State) State {
	if c.OnChange != nil {
		c.OnChange(s)
	}
	return s
}

// Mount resolves the anonymous visitor's liked flag before any interaction.
// A failed lookup keeps the server-rendered state.
func (c *Controller) Mount(ctx context.Context) State {
	if !c.anonymous {
		return c.machine.State()
	}
	ctx, cancel := context.WithTimeout(ctx, c.machine.timeout)
	defer cancel()

	liked, err := c.client.HasLiked(ctx, c.ref)
	if err != nil {
		return c.machine.State()
	}
	return c.emit(c.machine.Resolve(liked))
}

// Toggle shows the optimistic guess at once, then settles on the server's
// answer or reverts on failure and timeout.
func (c *Controller) Toggle(ctx context.Context) State {
	s, ok := c.machine.Begin(c.now())
	if !ok {
		return s
	}
	c.emit(s)

	ctx, cancel := context.WithTimeout(ctx, c.machine.timeout)
	defer cancel()

	res, err := c.client.Toggle(ctx, c.ref)
	switch {
	case err == nil:
		return c.emit(c.machine.Confirm(res.Count, res.Liked))
	case errors.Is(err, context.DeadlineExceeded):
		if s, expired := c.machine.Expire(c.now()); expired {
			return c.emit(s)
		}
		// the caller's deadline ran out before ours
		return c.emit(c.machine.Revert(timeoutMessage))
	default:
		return c.emit(c.machine.Revert(messageOf(err)))
	}
}

func messageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Gagal menyimpan, coba lagi."
}
