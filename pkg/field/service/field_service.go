package service

import (
	"context"

	"tarlatakip/entities"
)

type FieldInput struct {
	Type    string   `json:"type"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Area    *float64 `json:"area"`
}

// FieldPatch updates only the non-nil fields. ClearLocation drops the
// coordinate pair.
type FieldPatch struct {
	Type          *string  `json:"type"`
	Address       *string  `json:"address"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Area          *float64 `json:"area"`
	ClearLocation bool     `json:"clear_location"`
}

// Reverser turns a point into a postal address.
type Reverser interface {
	Reverse(ctx context.Context, uid string, lat, lng float64) (string, error)
}

type FieldService interface {
	CreateField(ctx context.Context, uid, farmerID string, in FieldInput) (*entities.Field, error)
	GetField(ctx context.Context, uid, farmerID, fieldID string) (*entities.Field, error)
	ListFields(ctx context.Context, uid, farmerID string) ([]entities.Field, error)
	UpdateField(ctx context.Context, uid, farmerID, fieldID string, p FieldPatch) (*entities.Field, error)
	DeleteField(ctx context.Context, uid, farmerID, fieldID string) error
}
