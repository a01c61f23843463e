package geocode

import (
	"context"
	"sync"

	"tarlatakip/pkg/latest"
)

// Guarded runs reverse lookups through a latest-wins sequence per account:
// a lookup overtaken by a newer one from the same account returns
// latest.ErrStale instead of its answer.
type Guarded struct {
	c Client

	mu   sync.Mutex
	seqs map[string]*latest.Sequence
}

func NewGuarded(c Client) *Guarded {
	return &Guarded{c: c, seqs: map[string]*latest.Sequence{}}
}

func (g *Guarded) sequence(uid string) *latest.Sequence {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.seqs[uid]
	if !ok {
		s = &latest.Sequence{}
		g.seqs[uid] = s
	}
	return s
}

func (g *Guarded) Reverse(ctx context.Context, uid string, lat, lng float64) (string, error) {
	return latest.Do(ctx, g.sequence(uid), func(ctx context.Context) (string, error) {
		return g.c.Reverse(ctx, lat, lng)
	})
}

func (g *Guarded) Search(ctx context.Context, query string) ([]Place, error) {
	return g.c.Search(ctx, query)
}
