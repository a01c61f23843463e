package service

import (
	"context"

	"tarlatakip/entities"
)

// VisitInput.Date accepts RFC 3339, a local "2006-01-02T15:04" or a local
// day; empty means now.
type VisitInput struct {
	Date              string   `json:"date"`
	Note              string   `json:"note"`
	RecommendationIDs []string `json:"recommendation_ids"`
}

type VisitPatch struct {
	Date              *string   `json:"date"`
	Note              *string   `json:"note"`
	RecommendationIDs *[]string `json:"recommendation_ids"`
}

type VisitService interface {
	CreateVisit(ctx context.Context, uid, farmerID, fieldID string, in VisitInput) (*entities.Visit, error)
	GetVisit(ctx context.Context, uid, farmerID, fieldID, visitID string) (*entities.Visit, error)
	// ListVisits returns one field's visits, newest first.
	ListVisits(ctx context.Context, uid, farmerID, fieldID string) ([]entities.Visit, error)
	UpdateVisit(ctx context.Context, uid, farmerID, fieldID, visitID string, p VisitPatch) (*entities.Visit, error)
	DeleteVisit(ctx context.Context, uid, farmerID, fieldID, visitID string) error
}
