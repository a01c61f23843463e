// Package latest implements a latest-request-wins guard: every request takes
// a ticket from a monotonic counter and its result is applied only if no
// newer ticket was issued while it was in flight.
package latest

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStale is returned by Do when a newer request superseded this one.
var ErrStale = errors.New("latest: superseded by a newer request")

type Sequence struct {
	n atomic.Uint64
}

// Ticket identifies one request issued from a Sequence.
type Ticket struct {
	seq *Sequence
	id  uint64
}

func (s *Sequence) Begin() Ticket { return Ticket{seq: s, id: s.n.Add(1)} }

func (t Ticket) ID() uint64 { return t.id }

// Current reports whether t is still the newest ticket of its sequence.
func (t Ticket) Current() bool { return t.seq != nil && t.seq.n.Load() == t.id }

// Do runs fetch under a fresh ticket. When the ticket is no longer current
// once fetch returns, the result is dropped and ErrStale is returned.
func Do[T any](ctx context.Context, s *Sequence, fetch func(context.Context) (T, error)) (T, error) {
	t := s.Begin()
	v, err := fetch(ctx)
	if !t.Current() {
		var zero T
		return zero, ErrStale
	}
	return v, err
}
