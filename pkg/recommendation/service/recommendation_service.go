package service

import (
	"context"

	"tarlatakip/entities"
)

type RecommendationInput struct {
	Name    string                      `json:"name"`
	Kind    entities.RecommendationKind `json:"kind"`
	SubKind *string                     `json:"sub_kind"`
}

type RecommendationPatch struct {
	Name    *string                      `json:"name"`
	Kind    *entities.RecommendationKind `json:"kind"`
	SubKind *string                      `json:"sub_kind"`
}

type RecommendationService interface {
	Create(ctx context.Context, uid string, in RecommendationInput) (*entities.Recommendation, error)
	// List returns the catalog ordered by name.
	List(ctx context.Context, uid string) ([]entities.Recommendation, error)
	Update(ctx context.Context, uid, id string, p RecommendationPatch) (*entities.Recommendation, error)
	Delete(ctx context.Context, uid, id string) error
}
