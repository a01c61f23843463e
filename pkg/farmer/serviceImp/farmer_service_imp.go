package serviceImp

import (
	"context"
	"errors"
	"strings"

	"tarlatakip/entities"
	"tarlatakip/pkg/farmer/service"
	"tarlatakip/pkg/store/repository"
)

type farmerSvc struct {
	farmers repository.FarmerStore
	fields  repository.FieldStore
}

func NewFarmerService(farmers repository.FarmerStore, fields repository.FieldStore) service.FarmerService {
	return &farmerSvc{farmers: farmers, fields: fields}
}

func (s *farmerSvc) Create(ctx context.Context, uid string, in service.FarmerInput) (*entities.Farmer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, repository.NewError(repository.CodeInvalidArgument, "CreateFarmer", errors.New("name is required"))
	}
	f := &entities.Farmer{OwnerUID: uid, Name: name, Phone: strings.TrimSpace(in.Phone)}
	if err := s.farmers.CreateFarmer(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *farmerSvc) Get(ctx context.Context, uid, farmerID string) (*entities.Farmer, error) {
	return s.farmers.GetFarmer(ctx, uid, farmerID)
}

func (s *farmerSvc) List(ctx context.Context, uid string) ([]entities.Farmer, error) {
	return s.farmers.ListFarmers(ctx, uid)
}

func (s *farmerSvc) Update(ctx context.Context, uid, farmerID string, p service.FarmerPatch) (*entities.Farmer, error) {
	f, err := s.farmers.GetFarmer(ctx, uid, farmerID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, repository.NewError(repository.CodeInvalidArgument, "UpdateFarmer", errors.New("name is required"))
		}
		f.Name = name
	}
	if p.Phone != nil {
		f.Phone = strings.TrimSpace(*p.Phone)
	}
	if err := s.farmers.UpdateFarmer(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *farmerSvc) Delete(ctx context.Context, uid, farmerID string) error {
	if _, err := s.farmers.GetFarmer(ctx, uid, farmerID); err != nil {
		return err
	}
	has, err := s.fields.HasAnyField(ctx, uid, farmerID)
	if err != nil {
		return err
	}
	if has {
		return repository.NewError(repository.CodeFailedPrecondition, "DeleteFarmer", errors.New("farmer still has fields"))
	}
	return s.farmers.DeleteFarmer(ctx, uid, farmerID)
}
