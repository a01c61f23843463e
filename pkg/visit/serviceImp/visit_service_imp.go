package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tarlatakip/entities"
	"tarlatakip/pkg/store/repository"
	"tarlatakip/pkg/visit/service"
)

type visitSvc struct {
	r   repository.VisitStore
	loc *time.Location
	now func() time.Time
}

func NewVisitService(r repository.VisitStore, loc *time.Location) service.VisitService {
	if loc == nil {
		loc = time.UTC
	}
	return &visitSvc{r: r, loc: loc, now: time.Now}
}

var localLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"}

// parseDate reads a visit date. Forms without a zone are taken in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, repository.NewError(repository.CodeInvalidArgument, "parseDate", fmt.Errorf("unrecognized date %q", s))
}

// cleanIDs trims and drops blanks. Order and repeats are kept as given.
func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (s *visitSvc) CreateVisit(ctx context.Context, uid, farmerID, fieldID string, in service.VisitInput) (*entities.Visit, error) {
	at := s.now()
	if strings.TrimSpace(in.Date) != "" {
		t, err := parseDate(in.Date, s.loc)
		if err != nil {
			return nil, err
		}
		at = t
	}
	v := &entities.Visit{
		OwnerUID:          uid,
		FarmerID:          farmerID,
		FieldID:           fieldID,
		Date:              entities.FormatInstant(at),
		Note:              strings.TrimSpace(in.Note),
		RecommendationIDs: cleanIDs(in.RecommendationIDs),
	}
	if err := s.r.CreateVisit(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *visitSvc) GetVisit(ctx context.Context, uid, farmerID, fieldID, visitID string) (*entities.Visit, error) {
	return s.r.GetVisit(ctx, uid, farmerID, fieldID, visitID)
}

func (s *visitSvc) ListVisits(ctx context.Context, uid, farmerID, fieldID string) ([]entities.Visit, error) {
	return s.r.ListVisitsByField(ctx, uid, farmerID, fieldID)
}

func (s *visitSvc) UpdateVisit(ctx context.Context, uid, farmerID, fieldID, visitID string, p service.VisitPatch) (*entities.Visit, error) {
	v, err := s.r.GetVisit(ctx, uid, farmerID, fieldID, visitID)
	if err != nil {
		return nil, err
	}
	// older documents may lack the denormalized parents
	v.FarmerID, v.FieldID = farmerID, fieldID
	if p.Date != nil {
		t, err := parseDate(*p.Date, s.loc)
		if err != nil {
			return nil, err
		}
		v.Date = entities.FormatInstant(t)
	}
	if p.Note != nil {
		v.Note = strings.TrimSpace(*p.Note)
	}
	if p.RecommendationIDs != nil {
		v.RecommendationIDs = cleanIDs(*p.RecommendationIDs)
	}
	if err := s.r.UpdateVisit(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *visitSvc) DeleteVisit(ctx context.Context, uid, farmerID, fieldID, visitID string) error {
	return s.r.DeleteVisit(ctx, uid, farmerID, fieldID, visitID)
}
