package serviceImp

import (
	"context"
	"errors"
	"strings"

	"tarlatakip/entities"
	"tarlatakip/pkg/recommendation/service"
	"tarlatakip/pkg/store/repository"
)

type recommendationSvc struct{ r repository.RecommendationStore }

func NewRecommendationService(r repository.RecommendationStore) service.RecommendationService {
	return &recommendationSvc{r: r}
}

// check validates name, kind and sub-kind in place.
func check(op string, rec *entities.Recommendation) error {
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Name == "" {
		return repository.NewError(repository.CodeInvalidArgument, op, errors.New("name is required"))
	}
	sub, err := entities.ValidateKind(rec.Kind, rec.SubKind)
	if err != nil {
		return repository.NewError(repository.CodeInvalidArgument, op, err)
	}
	rec.SubKind = sub
	return nil
}

func (s *recommendationSvc) Create(ctx context.Context, uid string, in service.RecommendationInput) (*entities.Recommendation, error) {
	rec := &entities.Recommendation{OwnerUID: uid, Name: in.Name, Kind: in.Kind, SubKind: in.SubKind}
	if rec.Kind == "" {
		rec.Kind = entities.KindOther
	}
	if err := check("CreateRecommendation", rec); err != nil {
		return nil, err
	}
	if err := s.r.CreateRecommendation(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recommendationSvc) List(ctx context.Context, uid string) ([]entities.Recommendation, error) {
	return s.r.ListRecommendations(ctx, uid)
}

func (s *recommendationSvc) Update(ctx context.Context, uid, id string, p service.RecommendationPatch) (*entities.Recommendation, error) {
	rec, err := s.r.GetRecommendation(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Kind != nil && *p.Kind != rec.Kind {
		rec.Kind = *p.Kind
		// a sub-kind never carries over to another kind
		rec.SubKind = nil
	}
	if p.SubKind != nil {
		rec.SubKind = p.SubKind
	}
	if err := check("UpdateRecommendation", rec); err != nil {
		return nil, err
	}
	if err := s.r.UpdateRecommendation(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recommendationSvc) Delete(ctx context.Context, uid, id string) error {
	return s.r.DeleteRecommendation(ctx, uid, id)
}
