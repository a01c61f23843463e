package visitquery

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tarlatakip/entities"
	"tarlatakip/pkg/docpath"
	"tarlatakip/pkg/store/repository"
)

// fakeSource is an in-memory Source for a single owner.
type fakeSource struct {
	farmers []entities.Farmer
	fields  []entities.Field
	visits  []entities.Visit
	recs    []entities.Recommendation

	denyGroup  bool
	groupErr   error
	listErr    error
	recErr     error
	farmerErrs map[string]error
	fieldErrs  map[string]error
	delay      time.Duration

	mu          sync.Mutex
	groupCalls  int
	farmerCalls map[string]int
	fieldCalls  map[FieldKey]int

	inflight    atomic.Int32
	maxInflight atomic.Int32
}

// enter counts an in-flight call; the returned func ends it.
func (s *fakeSource) enter() func() {
	n := s.inflight.Add(1)
	for {
		m := s.maxInflight.Load()
		if n <= m || s.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return func() { s.inflight.Add(-1) }
}

func (s *fakeSource) ListFarmers(_ context.Context, ownerUID string) ([]entities.Farmer, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []entities.Farmer
	for _, f := range s.farmers {
		if f.OwnerUID == ownerUID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeSource) GetFarmer(_ context.Context, ownerUID, farmerID string) (*entities.Farmer, error) {
	defer s.enter()()
	s.mu.Lock()
	if s.farmerCalls == nil {
		s.farmerCalls = map[string]int{}
	}
	s.farmerCalls[farmerID]++
	s.mu.Unlock()
	if err := s.farmerErrs[farmerID]; err != nil {
		return nil, err
	}
	for _, f := range s.farmers {
		if f.FarmerID == farmerID && f.OwnerUID == ownerUID {
			f := f
			return &f, nil
		}
	}
	return nil, repository.NewError(repository.CodeNotFound, "GetFarmer", nil)
}

func (s *fakeSource) ListFields(_ context.Context, ownerUID, farmerID string) ([]entities.Field, error) {
	defer s.enter()()
	var out []entities.Field
	for _, f := range s.fields {
		if f.FarmerID == farmerID && f.OwnerUID == ownerUID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeSource) GetField(_ context.Context, ownerUID, farmerID, fieldID string) (*entities.Field, error) {
	defer s.enter()()
	s.mu.Lock()
	if s.fieldCalls == nil {
		s.fieldCalls = map[FieldKey]int{}
	}
	s.fieldCalls[FieldKey{farmerID, fieldID}]++
	s.mu.Unlock()
	if err := s.fieldErrs[fieldID]; err != nil {
		return nil, err
	}
	for _, f := range s.fields {
		if f.FarmerID == farmerID && f.FieldID == fieldID && f.OwnerUID == ownerUID {
			f := f
			return &f, nil
		}
	}
	return nil, repository.NewError(repository.CodeNotFound, "GetField", nil)
}

func (s *fakeSource) ListVisitsByField(_ context.Context, ownerUID, farmerID, fieldID string) ([]entities.Visit, error) {
	defer s.enter()()
	prefix := docpath.VisitParent(farmerID, fieldID) + "/"
	var out []entities.Visit
	for _, v := range s.visits {
		if v.OwnerUID == ownerUID && strings.HasPrefix(v.Path, prefix) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeSource) QueryVisitGroup(_ context.Context, q repository.GroupQuery) (*repository.VisitPage, error) {
	s.mu.Lock()
	s.groupCalls++
	s.mu.Unlock()
	if s.denyGroup {
		return nil, repository.NewError(repository.CodePermissionDenied, "QueryVisitGroup", errors.New("denied"))
	}
	if s.groupErr != nil {
		return nil, s.groupErr
	}
	var rows []entities.Visit
	for _, v := range s.visits {
		if v.OwnerUID == q.OwnerUID {
			rows = append(rows, v)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].Path > rows[j].Path
	})
	if q.After != nil {
		var rest []entities.Visit
		for _, v := range rows {
			if v.Date < q.After.Date || (v.Date == q.After.Date && v.Path < q.After.Path) {
				rest = append(rest, v)
			}
		}
		rows = rest
	}
	page := &repository.VisitPage{Items: rows}
	if q.Limit > 0 && len(rows) > q.Limit {
		page.Items = rows[:q.Limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.Next = &repository.Cursor{Date: last.Date, Path: last.Path}
	}
	return page, nil
}

func (s *fakeSource) ListRecommendations(_ context.Context, ownerUID string) ([]entities.Recommendation, error) {
	if s.recErr != nil {
		return nil, s.recErr
	}
	var out []entities.Recommendation
	for _, r := range s.recs {
		if r.OwnerUID == ownerUID {
			out = append(out, r)
		}
	}
	return out, nil
}

func farmer(id, name, phone string) entities.Farmer {
	return entities.Farmer{FarmerID: id, OwnerUID: "u1", Name: name, Phone: phone}
}

func field(farmerID, id, typ, address string) entities.Field {
	return entities.Field{FieldID: id, FarmerID: farmerID, OwnerUID: "u1", Type: typ, Address: address}
}

// visit builds a visit as a legacy client wrote it: parents only in the path.
func visit(farmerID, fieldID, id, date, note string, recs ...string) entities.Visit {
	return entities.Visit{
		VisitID:           id,
		Path:              docpath.Visit(farmerID, fieldID, id),
		ParentPath:        docpath.Field(farmerID, fieldID),
		OwnerUID:          "u1",
		Date:              date,
		Note:              note,
		RecommendationIDs: recs,
	}
}

func ids(vs []entities.Visit) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.VisitID
	}
	return out
}

func viewIDs(vs []VisitView) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.VisitID
	}
	return out
}
