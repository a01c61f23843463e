package visitquery

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tarlatakip/entities"
	"tarlatakip/pkg/docpath"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/store/repository"
)

// Source is the part of the document store the query engine reads from.
type Source interface {
	ListFarmers(ctx context.Context, ownerUID string) ([]entities.Farmer, error)
	GetFarmer(ctx context.Context, ownerUID, farmerID string) (*entities.Farmer, error)
	ListFields(ctx context.Context, ownerUID, farmerID string) ([]entities.Field, error)
	GetField(ctx context.Context, ownerUID, farmerID, fieldID string) (*entities.Field, error)
	ListVisitsByField(ctx context.Context, ownerUID, farmerID, fieldID string) ([]entities.Visit, error)
	QueryVisitGroup(ctx context.Context, q repository.GroupQuery) (*repository.VisitPage, error)
	ListRecommendations(ctx context.Context, ownerUID string) ([]entities.Recommendation, error)
}

// Scope restricts a fetch to one farmer and optionally one of its fields.
type Scope struct {
	FarmerID string
	FieldID  string
}

// Strategy names the path a fetch took through the store.
type Strategy string

const (
	StrategyFlat         Strategy = "flat"
	StrategyHierarchical Strategy = "hierarchical"
)

// Fetched is the outcome of one engine fetch.
type Fetched struct {
	// Visits are newest first, each carrying its farmer and field ids.
	Visits   []entities.Visit
	Strategy Strategy
	// FieldMissing is set when the scoped field does not exist under the
	// scoped farmer; Visits is then empty.
	FieldMissing bool
}

type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeDenied
	outcomeFatal
)

// flatOutcome is the tagged result of the flat attempt: Ok(data),
// DeniedFallback or Fatal(err).
type flatOutcome struct {
	kind    outcomeKind
	fetched *Fetched
	err     error
}

// Engine fetches an account's visits, newest first, from the flat group
// query or, when that is denied, by walking farmers and fields.
type Engine struct {
	src       Source
	log       *zap.Logger
	batchSize int
	fanout    int
}

// EngineOption configures an Engine built by NewEngine.
type EngineOption func(*Engine)

func WithEngineLogger(l *zap.Logger) EngineOption { return func(e *Engine) { e.log = logging.OrNop(l) } }

// WithBatchSize sets the page size used to drain the flat query when the
// fetch is unbounded.
func WithBatchSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithFanout bounds concurrent store calls during the hierarchical walk.
func WithFanout(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.fanout = n
		}
	}
}

func NewEngine(src Source, opts ...EngineOption) *Engine {
	e := &Engine{src: src, log: zap.NewNop(), batchSize: 200, fanout: 8}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Fetch returns every visit of ownerUID inside scope, newest first. limit
// bounds the result; limit <= 0 fetches everything. Both strategies return
// up to limit in-scope visits. A denied flat query is
// answered by walking the hierarchy; every other failure is returned as a
// *FetchError.
func (e *Engine) Fetch(ctx context.Context, ownerUID string, scope Scope, limit int) (*Fetched, error) {
	out := e.flat(ctx, ownerUID, scope, limit)
	switch out.kind {
	case outcomeOK:
		sortNewestFirst(out.fetched.Visits)
		return out.fetched, nil
	case outcomeDenied:
		e.log.Warn("flat visit query denied, walking hierarchy", zap.String("owner", ownerUID))
		fetched, err := e.hierarchical(ctx, ownerUID, scope)
		if err != nil {
			return nil, &FetchError{Strategy: StrategyHierarchical, Err: err}
		}
		sortNewestFirst(fetched.Visits)
		if limit > 0 && len(fetched.Visits) > limit {
			fetched.Visits = fetched.Visits[:limit]
		}
		return fetched, nil
	default:
		return nil, &FetchError{Strategy: StrategyFlat, Err: out.err}
	}
}

func (e *Engine) flat(ctx context.Context, ownerUID string, scope Scope, limit int) flatOutcome {
	if scope.FarmerID != "" && scope.FieldID != "" {
		_, err := e.src.GetField(ctx, ownerUID, scope.FarmerID, scope.FieldID)
		switch {
		case err == nil:
		case repository.IsNotFound(err), repository.IsPermissionDenied(err):
			return flatOutcome{kind: outcomeOK, fetched: &Fetched{Strategy: StrategyFlat, FieldMissing: true}}
		default:
			return flatOutcome{kind: outcomeFatal, err: fmt.Errorf("check field %s: %w", scope.FieldID, err)}
		}
	}

	// the group query spans every farmer, so a scoped read pages in batches
	// until enough in-scope visits are collected
	scoped := scope.FarmerID != "" || scope.FieldID != ""
	q := repository.GroupQuery{OwnerUID: ownerUID, Limit: limit}
	if limit <= 0 || scoped {
		q.Limit = e.batchSize
	}
	var visits []entities.Visit
	for {
		page, err := e.src.QueryVisitGroup(ctx, q)
		if repository.IsPermissionDenied(err) {
			return flatOutcome{kind: outcomeDenied}
		}
		if err != nil {
			return flatOutcome{kind: outcomeFatal, err: fmt.Errorf("query visit group: %w", err)}
		}
		for _, v := range page.Items {
			e.fillParents(&v)
			if inScope(v, scope) {
				visits = append(visits, v)
			}
		}
		if limit > 0 && len(visits) >= limit {
			visits = visits[:limit]
			break
		}
		if (limit > 0 && !scoped) || !page.HasMore || page.Next == nil {
			break
		}
		q.After = page.Next
	}
	return flatOutcome{kind: outcomeOK, fetched: &Fetched{Visits: visits, Strategy: StrategyFlat}}
}

// fillParents takes the parent ids from the document's own fields when
// present and from its path otherwise.
func (e *Engine) fillParents(v *entities.Visit) {
	if v.FarmerID != "" && v.FieldID != "" {
		return
	}
	p, err := docpath.ParseVisit(v.Path)
	if err != nil {
		e.log.Debug("visit without recoverable parents", zap.String("visit", v.VisitID), zap.Error(err))
		return
	}
	if v.FarmerID == "" {
		v.FarmerID = p.FarmerID
	}
	if v.FieldID == "" {
		v.FieldID = p.FieldID
	}
}

func inScope(v entities.Visit, scope Scope) bool {
	if scope.FarmerID != "" && v.FarmerID != scope.FarmerID {
		return false
	}
	if scope.FieldID != "" && v.FieldID != scope.FieldID {
		return false
	}
	return true
}

// hierarchical enumerates farmers, then every farmer's fields, then every
// field's visits. Field listings all finish before any visit is read.
func (e *Engine) hierarchical(ctx context.Context, ownerUID string, scope Scope) (*Fetched, error) {
	farmers, err := e.src.ListFarmers(ctx, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	targets := farmers[:0:0]
	for _, f := range farmers {
		if scope.FarmerID == "" || f.FarmerID == scope.FarmerID {
			targets = append(targets, f)
		}
	}

	fieldLists := make([][]entities.Field, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fanout)
	for i, f := range targets {
		g.Go(func() error {
			fields, err := e.src.ListFields(gctx, ownerUID, f.FarmerID)
			if err != nil {
				return fmt.Errorf("list fields of farmer %s: %w", f.FarmerID, err)
			}
			fieldLists[i] = fields
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pairs []docpath.Parents
	for i, f := range targets {
		for _, fl := range fieldLists[i] {
			if scope.FieldID == "" || fl.FieldID == scope.FieldID {
				pairs = append(pairs, docpath.Parents{FarmerID: f.FarmerID, FieldID: fl.FieldID})
			}
		}
	}
	if scope.FieldID != "" && len(pairs) == 0 {
		return &Fetched{Strategy: StrategyHierarchical, FieldMissing: true}, nil
	}

	visitLists := make([][]entities.Visit, len(pairs))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.fanout)
	for i, p := range pairs {
		g.Go(func() error {
			list, err := e.src.ListVisitsByField(gctx, ownerUID, p.FarmerID, p.FieldID)
			if err != nil {
				return fmt.Errorf("list visits of field %s/%s: %w", p.FarmerID, p.FieldID, err)
			}
			for j := range list {
				list[j].FarmerID = p.FarmerID
				list[j].FieldID = p.FieldID
			}
			visitLists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var visits []entities.Visit
	for _, list := range visitLists {
		visits = append(visits, list...)
	}
	return &Fetched{Visits: visits, Strategy: StrategyHierarchical}, nil
}

// sortNewestFirst orders by instant, descending. Equal instants keep their
// incoming order.
func sortNewestFirst(visits []entities.Visit) {
	sort.SliceStable(visits, func(i, j int) bool { return visits[i].Millis() > visits[j].Millis() })
}

// Page reads one page of the flat query, newest first, with parent ids
// filled in. A denial is returned as is; paging has no fallback.
func (e *Engine) Page(ctx context.Context, ownerUID string, limit int, after *repository.Cursor) (*repository.VisitPage, error) {
	page, err := e.src.QueryVisitGroup(ctx, repository.GroupQuery{OwnerUID: ownerUID, Limit: limit, After: after})
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		e.fillParents(&page.Items[i])
	}
	return page, nil
}
