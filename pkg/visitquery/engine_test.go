package visitquery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarlatakip/entities"
	"tarlatakip/pkg/store/repository"
)

func fixtureSource() *fakeSource {
	return &fakeSource{
		farmers: []entities.Farmer{
			farmer("f1", "Çiğdem Yılmaz", "0532 111 22 33"),
			farmer("f2", "Ali Veli", "0505 444 55 66"),
		},
		fields: []entities.Field{
			field("f1", "a", "Buğday", "Konya Ereğli"),
			field("f1", "b", "Arpa", "Konya Karapınar"),
			field("f2", "c", "Mısır", "Adana Ceyhan"),
		},
		visits: []entities.Visit{
			visit("f1", "a", "v1", "2024-05-01T08:00:00.000Z", "yaprak biti", "r1"),
			visit("f1", "b", "v2", "2024-05-03T10:00:00.000Z", "sulama kontrolü"),
			visit("f2", "c", "v3", "2024-05-02T09:00:00.000Z", "gübre", "r2", "r1"),
			visit("f2", "c", "v4", "2024-04-30T23:30:00.000Z", ""),
			visit("f1", "a", "vbad", "not-a-date", "tarih bozuk"),
		},
		recs: []entities.Recommendation{
			{RecommendationID: "r1", OwnerUID: "u1", Name: "Bakır", Kind: entities.KindPesticide},
			{RecommendationID: "r2", OwnerUID: "u1", Name: "Üre", Kind: entities.KindFertilizer},
		},
	}
}

func TestFetchStrategies(t *testing.T) {
	tests := []struct {
		name     string
		deny     bool
		strategy Strategy
	}{
		{"flat", false, StrategyFlat},
		{"hierarchical fallback", true, StrategyHierarchical},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := fixtureSource()
			src.denyGroup = tc.deny
			got, err := NewEngine(src).Fetch(context.Background(), "u1", Scope{}, 0)
			require.NoError(t, err)

			assert.Equal(t, tc.strategy, got.Strategy)
			assert.Equal(t, []string{"v2", "v3", "v1", "v4", "vbad"}, ids(got.Visits))
			for _, v := range got.Visits {
				assert.NotEmpty(t, v.FarmerID, v.VisitID)
				assert.NotEmpty(t, v.FieldID, v.VisitID)
			}
			assert.Equal(t, "f1", got.Visits[0].FarmerID)
			assert.Equal(t, "b", got.Visits[0].FieldID)
		})
	}
}

func TestFetchScoped(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		want    []string
		missing bool
	}{
		{"farmer", Scope{FarmerID: "f1"}, []string{"v2", "v1", "vbad"}, false},
		{"farmer and field", Scope{FarmerID: "f2", FieldID: "c"}, []string{"v3", "v4"}, false},
		{"field of another farmer", Scope{FarmerID: "f1", FieldID: "c"}, []string{}, true},
		{"unknown farmer", Scope{FarmerID: "nobody"}, []string{}, false},
	}
	for _, tc := range tests {
		for _, deny := range []bool{false, true} {
			t.Run(tc.name, func(t *testing.T) {
				src := fixtureSource()
				src.denyGroup = deny
				got, err := NewEngine(src).Fetch(context.Background(), "u1", tc.scope, 0)
				require.NoError(t, err)
				assert.Equal(t, tc.want, ids(got.Visits))
				assert.Equal(t, tc.missing, got.FieldMissing)
			})
		}
	}
}

func TestFetchFieldProbeDenied(t *testing.T) {
	src := fixtureSource()
	src.fieldErrs = map[string]error{"a": repository.NewError(repository.CodePermissionDenied, "GetField", nil)}

	got, err := NewEngine(src).Fetch(context.Background(), "u1", Scope{FarmerID: "f1", FieldID: "a"}, 0)
	require.NoError(t, err)
	assert.True(t, got.FieldMissing)
	assert.Empty(t, got.Visits)
	assert.Zero(t, src.groupCalls)
}

func TestFetchFailures(t *testing.T) {
	unavailable := repository.NewError(repository.CodeUnavailable, "op", errors.New("offline"))

	t.Run("flat failure does not fall back", func(t *testing.T) {
		src := fixtureSource()
		src.groupErr = unavailable
		_, err := NewEngine(src).Fetch(context.Background(), "u1", Scope{}, 0)

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, StrategyFlat, fe.Strategy)
		assert.ErrorIs(t, err, unavailable)
	})

	t.Run("fallback failure", func(t *testing.T) {
		src := fixtureSource()
		src.denyGroup = true
		src.listErr = unavailable
		_, err := NewEngine(src).Fetch(context.Background(), "u1", Scope{}, 0)

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, StrategyHierarchical, fe.Strategy)
		assert.Equal(t, repository.CodeUnavailable, repository.CodeOf(err))
	})
}

func TestFetchLimit(t *testing.T) {
	for _, deny := range []bool{false, true} {
		src := fixtureSource()
		src.visits = src.visits[:4]
		src.denyGroup = deny
		got, err := NewEngine(src).Fetch(context.Background(), "u1", Scope{}, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"v2", "v3"}, ids(got.Visits))
	}
}

func TestFetchDrainsFlatPages(t *testing.T) {
	src := fixtureSource()
	got, err := NewEngine(src, WithBatchSize(2)).Fetch(context.Background(), "u1", Scope{}, 0)
	require.NoError(t, err)
	assert.Len(t, got.Visits, 5)
	assert.Equal(t, 3, src.groupCalls)
}

func TestFetchScopedLimitMatchesAcrossStrategies(t *testing.T) {
	for _, deny := range []bool{false, true} {
		src := manyVisits(25)
		src.denyGroup = deny
		got, err := NewEngine(src, WithBatchSize(4)).Fetch(context.Background(), "u1", Scope{FarmerID: "f2"}, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"v23", "v21", "v19"}, ids(got.Visits), "deny=%v", deny)
		if !deny {
			assert.Equal(t, 2, src.groupCalls)
		}
	}
}

func TestFetchEqualInstantsKeepStoreOrder(t *testing.T) {
	src := fixtureSource()
	src.visits = []entities.Visit{
		visit("f1", "a", "x1", "2024-01-01T00:00:00.000Z", ""),
		visit("f1", "a", "x2", "2024-01-01T00:00:00.000Z", ""),
		visit("f1", "a", "x3", "2024-01-02T00:00:00.000Z", ""),
	}
	got, err := NewEngine(src).Fetch(context.Background(), "u1", Scope{}, 0)
	require.NoError(t, err)
	// the store breaks date ties by path, descending
	assert.Equal(t, []string{"x3", "x2", "x1"}, ids(got.Visits))
}

func TestFetchKeepsDenormalizedParents(t *testing.T) {
	src := fixtureSource()
	v := visit("f1", "a", "moved", "2024-06-01T00:00:00.000Z", "")
	v.FarmerID, v.FieldID = "f2", "c"
	src.visits = []entities.Visit{v}

	got, err := NewEngine(src).Fetch(context.Background(), "u1", Scope{FarmerID: "f2"}, 0)
	require.NoError(t, err)
	require.Len(t, got.Visits, 1)
	assert.Equal(t, "c", got.Visits[0].FieldID)
}

func TestEnginePage(t *testing.T) {
	src := fixtureSource()
	e := NewEngine(src)

	page, err := e.Page(context.Background(), "u1", 2, nil)
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "f1", page.Items[0].FarmerID)

	src.denyGroup = true
	_, err = e.Page(context.Background(), "u1", 2, nil)
	assert.True(t, repository.IsPermissionDenied(err))
}
