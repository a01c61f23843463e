package visitquery

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tarlatakip/entities"
	"tarlatakip/pkg/logging"
)

// FieldKey identifies a field by its composite (farmer, field) id.
type FieldKey struct {
	FarmerID string
	FieldID  string
}

func (k FieldKey) String() string { return k.FarmerID + "::" + k.FieldID }

// References holds the documents a set of visits points at. Ids that could
// not be resolved are simply absent.
type References struct {
	Farmers             map[string]entities.Farmer
	Fields              map[FieldKey]entities.Field
	RecommendationNames map[string]string
}

func newReferences() *References {
	return &References{
		Farmers:             map[string]entities.Farmer{},
		Fields:              map[FieldKey]entities.Field{},
		RecommendationNames: map[string]string{},
	}
}

func (r *References) Farmer(id string) (entities.Farmer, bool) {
	f, ok := r.Farmers[id]
	return f, ok
}

func (r *References) Field(farmerID, fieldID string) (entities.Field, bool) {
	f, ok := r.Fields[FieldKey{FarmerID: farmerID, FieldID: fieldID}]
	return f, ok
}

// RecommendationName returns the catalog name, or the raw id when the entry
// is unknown.
func (r *References) RecommendationName(id string) string {
	if n, ok := r.RecommendationNames[id]; ok {
		return n
	}
	return id
}

// Resolver looks up the farmers, fields and recommendation names referenced
// by a set of visits with a bounded number of concurrent store calls.
type Resolver struct {
	src         Source
	parallelism int
	log         *zap.Logger
}

func NewResolver(src Source, parallelism int, log *zap.Logger) *Resolver {
	if parallelism <= 0 {
		parallelism = 8
	}
	return &Resolver{src: src, parallelism: parallelism, log: logging.OrNop(log)}
}

// Resolve fetches every distinct farmer and field referenced by visits plus
// the owner's recommendation catalog. A failed lookup leaves its id absent
// and never fails the call; only cancellation of ctx is returned.
func (r *Resolver) Resolve(ctx context.Context, ownerUID string, visits []entities.Visit) (*References, error) {
	farmerIDs, fieldKeys := distinctRefs(visits)
	refs := newReferences()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.parallelism)

	g.Go(func() error {
		recs, err := r.src.ListRecommendations(ctx, ownerUID)
		if err != nil {
			r.log.Warn("recommendation catalog unavailable", zap.String("owner", ownerUID), zap.Error(err))
			return nil
		}
		mu.Lock()
		for _, rec := range recs {
			refs.RecommendationNames[rec.RecommendationID] = rec.Name
		}
		mu.Unlock()
		return nil
	})

	for _, id := range farmerIDs {
		g.Go(func() error {
			f, err := r.src.GetFarmer(ctx, ownerUID, id)
			if err != nil {
				r.log.Debug("farmer lookup failed", zap.String("farmer", id), zap.Error(err))
				return nil
			}
			mu.Lock()
			refs.Farmers[id] = *f
			mu.Unlock()
			return nil
		})
	}

	for _, k := range fieldKeys {
		g.Go(func() error {
			f, err := r.src.GetField(ctx, ownerUID, k.FarmerID, k.FieldID)
			if err != nil {
				r.log.Debug("field lookup failed", zap.String("field", k.String()), zap.Error(err))
				return nil
			}
			mu.Lock()
			refs.Fields[k] = *f
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

// distinctRefs collects referenced ids in first-seen order, skipping visits
// whose parents are unknown.
func distinctRefs(visits []entities.Visit) ([]string, []FieldKey) {
	seenFarmer := map[string]struct{}{}
	seenField := map[FieldKey]struct{}{}
	var farmers []string
	var fields []FieldKey
	for _, v := range visits {
		if v.FarmerID == "" {
			continue
		}
		if _, ok := seenFarmer[v.FarmerID]; !ok {
			seenFarmer[v.FarmerID] = struct{}{}
			farmers = append(farmers, v.FarmerID)
		}
		if v.FieldID == "" {
			continue
		}
		k := FieldKey{FarmerID: v.FarmerID, FieldID: v.FieldID}
		if _, ok := seenField[k]; !ok {
			seenField[k] = struct{}{}
			fields = append(fields, k)
		}
	}
	return farmers, fields
}
