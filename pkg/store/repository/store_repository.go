package repository

import (
	"context"

	"tarlatakip/entities"
)

// Cursor marks the last document of a page of a collection-group query.
// Continuation resumes strictly after it in (date desc, path desc) order.
type Cursor struct {
	Date string `json:"date"`
	Path string `json:"path"`
}

// GroupQuery selects visits across every farmer and field of one owner,
// newest first. Limit <= 0 means no limit.
type GroupQuery struct {
	OwnerUID string
	Limit    int
	After    *Cursor
}

type VisitPage struct {
	Items   []entities.Visit
	Next    *Cursor
	HasMore bool
}

type FarmerStore interface {
	CreateFarmer(ctx context.Context, f *entities.Farmer) error
	GetFarmer(ctx context.Context, ownerUID, farmerID string) (*entities.Farmer, error)
	ListFarmers(ctx context.Context, ownerUID string) ([]entities.Farmer, error)
	UpdateFarmer(ctx context.Context, f *entities.Farmer) error
	DeleteFarmer(ctx context.Context, ownerUID, farmerID string) error
}

type FieldStore interface {
	CreateField(ctx context.Context, f *entities.Field) error
	GetField(ctx context.Context, ownerUID, farmerID, fieldID string) (*entities.Field, error)
	ListFields(ctx context.Context, ownerUID, farmerID string) ([]entities.Field, error)
	HasAnyField(ctx context.Context, ownerUID, farmerID string) (bool, error)
	UpdateField(ctx context.Context, f *entities.Field) error
	DeleteField(ctx context.Context, ownerUID, farmerID, fieldID string) error
}

type VisitStore interface {
	CreateVisit(ctx context.Context, v *entities.Visit) error
	GetVisit(ctx context.Context, ownerUID, farmerID, fieldID, visitID string) (*entities.Visit, error)
	// ListVisitsByField reads the visits sub-collection of one field, newest first.
	ListVisitsByField(ctx context.Context, ownerUID, farmerID, fieldID string) ([]entities.Visit, error)
	// QueryVisitGroup is the cross-hierarchy query. Stores may refuse it
	// with CodePermissionDenied.
	QueryVisitGroup(ctx context.Context, q GroupQuery) (*VisitPage, error)
	UpdateVisit(ctx context.Context, v *entities.Visit) error
	DeleteVisit(ctx context.Context, ownerUID, farmerID, fieldID, visitID string) error
}

type RecommendationStore interface {
	CreateRecommendation(ctx context.Context, r *entities.Recommendation) error
	GetRecommendation(ctx context.Context, ownerUID, id string) (*entities.Recommendation, error)
	// ListRecommendations returns the owner's catalog ordered by name.
	ListRecommendations(ctx context.Context, ownerUID string) ([]entities.Recommendation, error)
	UpdateRecommendation(ctx context.Context, r *entities.Recommendation) error
	DeleteRecommendation(ctx context.Context, ownerUID, id string) error
}

type Store interface {
	FarmerStore
	FieldStore
	VisitStore
	RecommendationStore
}
