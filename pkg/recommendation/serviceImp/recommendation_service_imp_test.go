package serviceImp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarlatakip/entities"
	"tarlatakip/pkg/recommendation/service"
	"tarlatakip/pkg/store/repository"
	"tarlatakip/pkg/store/storetest"
)

func ptr[T any](v T) *T { return &v }

func TestRecommendationKinds(t *testing.T) {
	ctx := context.Background()
	svc := NewRecommendationService(storetest.Open(t))

	tests := []struct {
		name string
		in   service.RecommendationInput
		ok   bool
	}{
		{"pesticide with sub-kind", service.RecommendationInput{Name: "Bakır Oksiklorür", Kind: entities.KindPesticide, SubKind: ptr("Fungusit")}, true},
		{"fertilizer without sub-kind", service.RecommendationInput{Name: "Amonyum Sülfat", Kind: entities.KindFertilizer}, true},
		{"default kind", service.RecommendationInput{Name: "Budama"}, true},
		{"wrong sub-kind", service.RecommendationInput{Name: "X", Kind: entities.KindFertilizer, SubKind: ptr("Herbisit")}, false},
		{"sub-kind on other", service.RecommendationInput{Name: "X", Kind: entities.KindOther, SubKind: ptr("Fungusit")}, false},
		{"unknown kind", service.RecommendationInput{Name: "X", Kind: "seed"}, false},
		{"no name", service.RecommendationInput{Kind: entities.KindOther}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "u1", tc.in)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, repository.CodeInvalidArgument, repository.CodeOf(err))
		})
	}

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Amonyum Sülfat", list[0].Name)
}

func TestRecommendationKindChangeDropsSubKind(t *testing.T) {
	ctx := context.Background()
	svc := NewRecommendationService(storetest.Open(t))

	rec, err := svc.Create(ctx, "u1", service.RecommendationInput{Name: "Kükürt", Kind: entities.KindPesticide, SubKind: ptr("Akarisit")})
	require.NoError(t, err)

	kind := entities.KindFertilizer
	rec, err = svc.Update(ctx, "u1", rec.RecommendationID, service.RecommendationPatch{Kind: &kind})
	require.NoError(t, err)
	assert.Nil(t, rec.SubKind)

	rec, err = svc.Update(ctx, "u1", rec.RecommendationID, service.RecommendationPatch{SubKind: ptr("Mikro Element Gübreleri")})
	require.NoError(t, err)
	require.NotNil(t, rec.SubKind)
	assert.Equal(t, "Mikro Element Gübreleri", *rec.SubKind)

	require.NoError(t, svc.Delete(ctx, "u1", rec.RecommendationID))
	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
