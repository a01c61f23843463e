package visitquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarlatakip/entities"
	"tarlatakip/pkg/docpath"
)

var istanbul = time.FixedZone("TRT", 3*60*60)

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Çiğdem":        "cigdem",
		"ŞEKER PANCARI": "seker pancari",
		"İzmir":         "izmir",
		"Gübre":         "gubre",
		"":              "",
		"café":          "cafe",
		// dotless ı has no decomposition
		"Mısır":         "mısır",
	}
	for in, want := range tests {
		assert.Equal(t, want, Fold(in), in)
	}
}

func TestDayBounds(t *testing.T) {
	start, err := DayStart("2024-05-01", istanbul)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-30T21:00:00Z", start.UTC().Format(time.RFC3339))

	end, err := DayEnd("2024-05-01", istanbul)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T20:59:59.999Z", end.UTC().Format(entities.InstantLayout))

	_, err = DayStart("01.05.2024", istanbul)
	assert.ErrorIs(t, err, ErrValidation)

	from, to, err := ParseBounds("", " ", istanbul)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = ParseBounds("2024-05-01", "yarın", istanbul)
	assert.ErrorIs(t, err, ErrValidation)
}

func viewsOf(vs ...entities.Visit) []VisitView {
	src := fixtureSource()
	refs := newReferences()
	for _, f := range src.farmers {
		refs.Farmers[f.FarmerID] = f
	}
	for _, f := range src.fields {
		refs.Fields[FieldKey{f.FarmerID, f.FieldID}] = f
	}
	for _, r := range src.recs {
		refs.RecommendationNames[r.RecommendationID] = r.Name
	}
	for i := range vs {
		p, _ := docpath.ParseVisit(vs[i].Path)
		vs[i].FarmerID, vs[i].FieldID = p.FarmerID, p.FieldID
	}
	return Denormalize(vs, refs)
}

func TestApplySearch(t *testing.T) {
	views := viewsOf(fixtureSource().visits...)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"v1", "v2", "v3", "v4", "vbad"}},
		{"   ", []string{"v1", "v2", "v3", "v4", "vbad"}},
		{"cigdem", []string{"v1", "v2", "vbad"}},
		{"ÇİĞDEM", []string{"v1", "v2", "vbad"}},
		{"ure", []string{"v3"}},
		{"bakır", []string{"v1", "v3"}},
		{"0505", []string{"v3", "v4"}},
		{"karapınar", []string{"v2"}},
		{"mısır", []string{"v3", "v4"}},
		{"yaprak biti", []string{"v1"}},
		{"yok böyle", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, viewIDs(Apply(views, Criteria{Query: tc.query})))
		})
	}
}

func TestApplySearchText(t *testing.T) {
	refs := newReferences()
	refs.Farmers["f9"] = farmer("f9", "Ali", "")
	refs.Fields[FieldKey{"f9", "d"}] = field("f9", "d", "Domates", "")

	known := visit("f9", "d", "known", "2024-05-01T08:00:00.000Z", "sulama")
	known.FarmerID, known.FieldID = "f9", "d"
	orphan := visit("farmer-xyz", "field-abc", "orphan", "2024-05-01T08:00:00.000Z", "")
	orphan.FarmerID, orphan.FieldID = "farmer-xyz", "field-abc"
	views := Denormalize([]entities.Visit{known, orphan}, refs)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"unresolved farmer id is not searched", "farmer-xyz", []string{}},
		{"unresolved field id is not searched", "field-abc", []string{}},
		{"blank phone leaves a single space", "ali domates", []string{"known"}},
		{"note comes first", "sulama ali", []string{"known"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, viewIDs(Apply(views, Criteria{Query: tc.query})))
		})
	}
}

func TestApplyDateWindowInclusive(t *testing.T) {
	views := viewsOf(
		visit("f1", "a", "before", "2024-04-30T20:59:59.999Z", ""),
		visit("f1", "a", "first", "2024-04-30T21:00:00.000Z", ""),
		visit("f1", "a", "last", "2024-05-01T20:59:59.999Z", ""),
		visit("f1", "a", "after", "2024-05-01T21:00:00.000Z", ""),
		visit("f1", "a", "broken", "??", ""),
	)
	from, to, err := ParseBounds("2024-05-01", "2024-05-01", istanbul)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "last"}, viewIDs(Apply(views, Criteria{From: from, To: to})))
	assert.Equal(t, []string{"first", "last", "after"}, viewIDs(Apply(views, Criteria{From: from})))
	assert.Equal(t, []string{"before", "first", "last", "broken"}, viewIDs(Apply(views, Criteria{To: to})))
}

func TestApplyScope(t *testing.T) {
	views := viewsOf(fixtureSource().visits...)
	assert.Equal(t, []string{"v1", "v2", "vbad"}, viewIDs(Apply(views, Criteria{FarmerID: "f1"})))
	assert.Equal(t, []string{"v1", "vbad"}, viewIDs(Apply(views, Criteria{FarmerID: "f1", FieldID: "a"})))
	assert.Equal(t, []string{"v3"}, viewIDs(Apply(views, Criteria{FieldID: "c", Query: "gübre"})))
}
