package service

import (
	"context"

	"tarlatakip/entities"
)

type FarmerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// FarmerPatch updates only the non-nil fields.
type FarmerPatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type FarmerService interface {
	Create(ctx context.Context, uid string, in FarmerInput) (*entities.Farmer, error)
	Get(ctx context.Context, uid, farmerID string) (*entities.Farmer, error)
	List(ctx context.Context, uid string) ([]entities.Farmer, error)
	Update(ctx context.Context, uid, farmerID string, p FarmerPatch) (*entities.Farmer, error)
	// Delete refuses farmers that still have fields.
	Delete(ctx context.Context, uid, farmerID string) error
}
