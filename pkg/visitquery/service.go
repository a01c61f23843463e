package visitquery

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tarlatakip/pkg/latest"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/store/repository"
)

const (
	// RecentLimit is the size of the dashboard's recent visit list.
	RecentLimit = 10

	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// Loaded is one fetch-and-resolve cycle.
type Loaded struct {
	Views        []VisitView
	Strategy     Strategy
	FieldMissing bool
}

// BrowseRequest carries the query-string form of a browse.
type BrowseRequest struct {
	FarmerID string
	FieldID  string
	From     string
	To       string
	Query    string
	Page     int
}

type FeedPage struct {
	Visits  []VisitView        `json:"visits"`
	Next    *repository.Cursor `json:"-"`
	HasMore bool               `json:"has_more"`
}

// Service serves visit queries. Browses of one account run under a
// latest-wins sequence shared by that account's requests.
type Service struct {
	engine   *Engine
	resolver *Resolver
	exporter *Exporter
	loc      *time.Location
	log      *zap.Logger

	mu   sync.Mutex
	seqs map[string]*latest.Sequence
}

func NewService(engine *Engine, resolver *Resolver, exporter *Exporter, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		engine:   engine,
		resolver: resolver,
		exporter: exporter,
		loc:      loc,
		log:      logging.OrNop(log),
		seqs:     map[string]*latest.Sequence{},
	}
}

func (s *Service) sequence(ownerUID string) *latest.Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.seqs[ownerUID]
	if !ok {
		seq = &latest.Sequence{}
		s.seqs[ownerUID] = seq
	}
	return seq
}

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) Exporter() *Exporter { return s.exporter }

// Load fetches the visits in scope and joins them with their references.
func (s *Service) Load(ctx context.Context, ownerUID string, scope Scope, limit int) (*Loaded, error) {
	fetched, err := s.engine.Fetch(ctx, ownerUID, scope, limit)
	if err != nil {
		return nil, err
	}
	refs, err := s.resolver.Resolve(ctx, ownerUID, fetched.Visits)
	if err != nil {
		return nil, err
	}
	s.log.Debug("visits loaded",
		zap.String("owner", ownerUID),
		zap.String("strategy", string(fetched.Strategy)),
		zap.Int("count", len(fetched.Visits)))
	return &Loaded{
		Views:        Denormalize(fetched.Visits, refs),
		Strategy:     fetched.Strategy,
		FieldMissing: fetched.FieldMissing,
	}, nil
}

// Browse runs a stateless load, filter and page cycle. A browse overtaken
// by a newer one from the same account returns latest.ErrStale. A failed
// fetch returns a *FetchError; FailedState renders it for the client.
func (s *Service) Browse(ctx context.Context, ownerUID string, req BrowseRequest) (*State, error) {
	return s.browse(ctx, ownerUID, req, s.sequence(ownerUID))
}

func (s *Service) browse(ctx context.Context, ownerUID string, req BrowseRequest, seq *latest.Sequence) (*State, error) {
	from, to, err := ParseBounds(req.From, req.To, s.loc)
	if err != nil {
		return nil, err
	}
	scope := Scope{FarmerID: req.FarmerID, FieldID: req.FieldID}
	load := func(ctx context.Context) (*Loaded, error) { return s.Load(ctx, ownerUID, scope, 0) }
	var loaded *Loaded
	if seq != nil {
		loaded, err = latest.Do(ctx, seq, load)
	} else {
		loaded, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}
	c := Criteria{FarmerID: req.FarmerID, FieldID: req.FieldID, From: from, To: to, Query: req.Query}
	if loaded.FieldMissing {
		c.FieldID = ""
	}
	pager := NewPager[VisitView](VisitsPageSize)
	pager.Reset(Apply(loaded.Views, c))
	pager.Seek(req.Page)
	st := stateOf(pager, false, "")
	return &st, nil
}

// ExportPage renders the page Browse would return. Exports do not take part
// in the account's browse sequence.
func (s *Service) ExportPage(ctx context.Context, ownerUID string, req BrowseRequest, f Format) (*Artifact, error) {
	st, err := s.browse(ctx, ownerUID, req, nil)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(st.Visits, f)
}

// Recent returns the newest RecentLimit visits across every farmer.
func (s *Service) Recent(ctx context.Context, ownerUID string) ([]VisitView, error) {
	loaded, err := s.Load(ctx, ownerUID, Scope{}, RecentLimit*2)
	if err != nil {
		return nil, err
	}
	views := loaded.Views
	if len(views) > RecentLimit {
		views = views[:RecentLimit]
	}
	return views, nil
}

// Feed returns one cursor page of the flat listing.
func (s *Service) Feed(ctx context.Context, ownerUID string, limit int, after *repository.Cursor) (*FeedPage, error) {
	switch {
	case limit <= 0:
		limit = DefaultFeedLimit
	case limit > MaxFeedLimit:
		limit = MaxFeedLimit
	}
	page, err := s.engine.Page(ctx, ownerUID, limit, after)
	if err != nil {
		return nil, err
	}
	refs, err := s.resolver.Resolve(ctx, ownerUID, page.Items)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Visits: Denormalize(page.Items, refs), Next: page.Next, HasMore: page.HasMore}, nil
}

// NewSession starts an interactive browsing session for ownerUID.
func (s *Service) NewSession(ownerUID string) *Session {
	return &Session{svc: s, owner: ownerUID, pager: NewPager[VisitView](VisitsPageSize)}
}
