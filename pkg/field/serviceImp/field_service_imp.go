package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tarlatakip/entities"
	"tarlatakip/pkg/field/service"
	"tarlatakip/pkg/logging"
	"tarlatakip/pkg/store/repository"
)

type fieldSvc struct {
	r   repository.FieldStore
	geo service.Reverser
	log *zap.Logger
}

// NewFieldService builds the field service. geo may be nil, in which case
// addresses are never filled from coordinates.
func NewFieldService(r repository.FieldStore, geo service.Reverser, log *zap.Logger) service.FieldService {
	return &fieldSvc{r: r, geo: geo, log: logging.OrNop(log)}
}

func invalid(op string, format string, args ...any) error {
	return repository.NewError(repository.CodeInvalidArgument, op, fmt.Errorf(format, args...))
}

func validate(op string, f *entities.Field) error {
	if strings.TrimSpace(f.Type) == "" {
		return invalid(op, "type is required")
	}
	if (f.Lat == nil) != (f.Lng == nil) {
		return invalid(op, "lat and lng must be given together")
	}
	if lat, lng, ok := f.Location(); ok {
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return invalid(op, "point %.6f,%.6f is out of range", lat, lng)
		}
	}
	if f.Area != nil && *f.Area < 0 {
		return invalid(op, "area must not be negative")
	}
	return nil
}

func (s *fieldSvc) CreateField(ctx context.Context, uid, farmerID string, in service.FieldInput) (*entities.Field, error) {
	f := &entities.Field{
		OwnerUID: uid,
		FarmerID: farmerID,
		Type:     strings.TrimSpace(in.Type),
		Address:  strings.TrimSpace(in.Address),
		Lat:      in.Lat,
		Lng:      in.Lng,
		Area:     in.Area,
	}
	if err := validate("CreateField", f); err != nil {
		return nil, err
	}
	s.fillAddress(ctx, uid, f)
	if err := s.r.CreateField(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// fillAddress sets an empty address from the field's point. Lookup failures
// leave it empty.
func (s *fieldSvc) fillAddress(ctx context.Context, uid string, f *entities.Field) {
	lat, lng, ok := f.Location()
	if !ok || f.Address != "" || s.geo == nil {
		return
	}
	addr, err := s.geo.Reverse(ctx, uid, lat, lng)
	if err != nil {
		s.log.Info("reverse geocode skipped", zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		return
	}
	f.Address = addr
}

func (s *fieldSvc) GetField(ctx context.Context, uid, farmerID, fieldID string) (*entities.Field, error) {
	return s.r.GetField(ctx, uid, farmerID, fieldID)
}

func (s *fieldSvc) ListFields(ctx context.Context, uid, farmerID string) ([]entities.Field, error) {
	return s.r.ListFields(ctx, uid, farmerID)
}

func (s *fieldSvc) UpdateField(ctx context.Context, uid, farmerID, fieldID string, p service.FieldPatch) (*entities.Field, error) {
	f, err := s.r.GetField(ctx, uid, farmerID, fieldID)
	if err != nil {
		return nil, err
	}
	if p.Type != nil {
		f.Type = strings.TrimSpace(*p.Type)
	}
	if p.Address != nil {
		f.Address = strings.TrimSpace(*p.Address)
	}
	if p.ClearLocation {
		if p.Lat != nil || p.Lng != nil {
			return nil, invalid("UpdateField", "clear_location conflicts with lat/lng")
		}
		f.Lat, f.Lng = nil, nil
	}
	if p.Lat != nil || p.Lng != nil {
		f.Lat, f.Lng = p.Lat, p.Lng
	}
	if p.Area != nil {
		f.Area = p.Area
	}
	if err := validate("UpdateField", f); err != nil {
		return nil, err
	}
	if err := s.r.UpdateField(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *fieldSvc) DeleteField(ctx context.Context, uid, farmerID, fieldID string) error {
	return s.r.DeleteField(ctx, uid, farmerID, fieldID)
}
