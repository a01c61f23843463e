package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	assert.Equal(t, "farmers/f1", Farmer("f1"))
	assert.Equal(t, "farmers/f1/fields/g1", Field("f1", "g1"))
	assert.Equal(t, "farmers/f1/fields/g1/visits", VisitParent("f1", "g1"))
	assert.Equal(t, "farmers/f1/fields/g1/visits/v1", Visit("f1", "g1", "v1"))
}

func TestParseVisit(t *testing.T) {
	t.Run("full path", func(t *testing.T) {
		p, err := ParseVisit("farmers/f1/fields/g1/visits/v1")
		require.NoError(t, err)
		assert.Equal(t, Parents{FarmerID: "f1", FieldID: "g1"}, p)
	})

	t.Run("leading slash tolerated", func(t *testing.T) {
		p, err := ParseVisit("/farmers/f1/fields/g1/visits/v1")
		require.NoError(t, err)
		assert.Equal(t, "g1", p.FieldID)
	})

	t.Run("round trip", func(t *testing.T) {
		p, err := ParseVisit(Visit("a", "b", "c"))
		require.NoError(t, err)
		assert.Equal(t, Parents{FarmerID: "a", FieldID: "b"}, p)
	})

	for _, path := range []string{"", "farmers/f1", "farmers/f1/fields/g1", "farmers/f1/fields/g1/visits"} {
		t.Run("short "+path, func(t *testing.T) {
			_, err := ParseVisit(path)
			assert.ErrorIs(t, err, ErrShortPath)
		})
	}

	t.Run("empty segment", func(t *testing.T) {
		_, err := ParseVisit("farmers//fields/g1/visits/v1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrShortPath)
	})
}
