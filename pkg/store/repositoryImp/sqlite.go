package repositoryImp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tarlatakip/entities"
	"tarlatakip/pkg/docpath"
	"tarlatakip/pkg/store/repository"
)

// Rules are the authorization rules the store enforces on top of the
// per-document owner check.
type Rules struct {
	// AllowCollectionGroup permits QueryVisitGroup. Deployments whose rules
	// predate the collection-group index leave it off.
	AllowCollectionGroup bool
}

type sqliteStore struct {
	db    *gorm.DB
	rules Rules
}

func New(db *gorm.DB, rules Rules) repository.Store { return &sqliteStore{db: db, rules: rules} }

func newID() string { return uuid.NewString() }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.NewError(repository.CodeNotFound, op, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return repository.NewError(repository.CodeUnavailable, op, err)
}

func authorize(op, actor, owner string) error {
	if actor == "" {
		return repository.NewError(repository.CodePermissionDenied, op, errors.New("no signed-in account"))
	}
	if actor != owner {
		return repository.NewError(repository.CodePermissionDenied, op, nil)
	}
	return nil
}

func invalid(op, msg string) error {
	return repository.NewError(repository.CodeInvalidArgument, op, errors.New(msg))
}

// --- farmers ---

func (s *sqliteStore) CreateFarmer(ctx context.Context, f *entities.Farmer) error {
	const op = "CreateFarmer"
	if err := authorize(op, f.OwnerUID, f.OwnerUID); err != nil {
		return err
	}
	if f.FarmerID == "" {
		f.FarmerID = newID()
	}
	return wrap(op, s.db.WithContext(ctx).Create(f).Error)
}

func (s *sqliteStore) GetFarmer(ctx context.Context, ownerUID, farmerID string) (*entities.Farmer, error) {
	const op = "GetFarmer"
	var f entities.Farmer
	if err := s.db.WithContext(ctx).Where("farmer_id = ?", farmerID).First(&f).Error; err != nil {
		return nil, wrap(op, err)
	}
	if err := authorize(op, ownerUID, f.OwnerUID); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *sqliteStore) ListFarmers(ctx context.Context, ownerUID string) ([]entities.Farmer, error) {
	const op = "ListFarmers"
	if err := authorize(op, ownerUID, ownerUID); err != nil {
		return nil, err
	}
	var out []entities.Farmer
	err := s.db.WithContext(ctx).Where("owner_uid = ?", ownerUID).Order("created_at ASC, farmer_id ASC").Find(&out).Error
	return out, wrap(op, err)
}

func (s *sqliteStore) UpdateFarmer(ctx context.Context, f *entities.Farmer) error {
	const op = "UpdateFarmer"
	if _, err := s.GetFarmer(ctx, f.OwnerUID, f.FarmerID); err != nil {
		return err
	}
	return wrap(op, s.db.WithContext(ctx).Save(f).Error)
}

func (s *sqliteStore) DeleteFarmer(ctx context.Context, ownerUID, farmerID string) error {
	const op = "DeleteFarmer"
	if _, err := s.GetFarmer(ctx, ownerUID, farmerID); err != nil {
		return err
	}
	return wrap(op, s.db.WithContext(ctx).Where("farmer_id = ?", farmerID).Delete(&entities.Farmer{}).Error)
}

// --- fields ---

func (s *sqliteStore) CreateField(ctx context.Context, f *entities.Field) error {
	const op = "CreateField"
	if f.FarmerID == "" {
		return invalid(op, "farmer id is required")
	}
	if _, err := s.GetFarmer(ctx, f.OwnerUID, f.FarmerID); err != nil {
		return err
	}
	if f.FieldID == "" {
		f.FieldID = newID()
	}
	return wrap(op, s.db.WithContext(ctx).Create(f).Error)
}

func (s *sqliteStore) GetField(ctx context.Context, ownerUID, farmerID, fieldID string) (*entities.Field, error) {
	const op = "GetField"
	var f entities.Field
	err := s.db.WithContext(ctx).Where("field_id = ? AND farmer_id = ?", fieldID, farmerID).First(&f).Error
	if err != nil {
		return nil, wrap(op, err)
	}
	if err := authorize(op, ownerUID, f.OwnerUID); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *sqliteStore) ListFields(ctx context.Context, ownerUID, farmerID string) ([]entities.Field, error) {
	const op = "ListFields"
	if err := authorize(op, ownerUID, ownerUID); err != nil {
		return nil, err
	}
	var out []entities.Field
	err := s.db.WithContext(ctx).
		Where("farmer_id = ? AND owner_uid = ?", farmerID, ownerUID).
		Order("created_at ASC, field_id ASC").
		Find(&out).Error
	return out, wrap(op, err)
}

func (s *sqliteStore) HasAnyField(ctx context.Context, ownerUID, farmerID string) (bool, error) {
	const op = "HasAnyField"
	if err := authorize(op, ownerUID, ownerUID); err != nil {
		return false, err
	}
	var ids []string
	err := s.db.WithContext(ctx).Model(&entities.Field{}).
		Where("farmer_id = ? AND owner_uid = ?", farmerID, ownerUID).
		Limit(1).
		Pluck("field_id", &ids).Error
	if err != nil {
		return false, wrap(op, err)
	}
	return len(ids) > 0, nil
}

func (s *sqliteStore) UpdateField(ctx context.Context, f *entities.Field) error {
	const op = "UpdateField"
	if _, err := s.GetField(ctx, f.OwnerUID, f.FarmerID, f.FieldID); err != nil {
		return err
	}
	return wrap(op, s.db.WithContext(ctx).Save(f).Error)
}

// DeleteField removes the field document only. Its visits stay behind.
func (s *sqliteStore) DeleteField(ctx context.Context, ownerUID, farmerID, fieldID string) error {
	const op = "DeleteField"
	if _, err := s.GetField(ctx, ownerUID, farmerID, fieldID); err != nil {
		return err
	}
	return wrap(op, s.db.WithContext(ctx).Where("field_id = ? AND farmer_id = ?", fieldID, farmerID).Delete(&entities.Field{}).Error)
}

// --- visits ---

func (s *sqliteStore) CreateVisit(ctx context.Context, v *entities.Visit) error {
	const op = "CreateVisit"
	if v.FarmerID == "" || v.FieldID == "" {
		return invalid(op, "farmer id and field id are required")
	}
	if _, err := s.GetField(ctx, v.OwnerUID, v.FarmerID, v.FieldID); err != nil {
		return err
	}
	if v.VisitID == "" {
		v.VisitID = newID()
	}
	v.Path = docpath.Visit(v.FarmerID, v.FieldID, v.VisitID)
	v.ParentPath = docpath.Field(v.FarmerID, v.FieldID)
	if v.RecommendationIDs == nil {
		v.RecommendationIDs = []string{}
	}
	return wrap(op, s.db.WithContext(ctx).Create(v).Error)
}

func (s *sqliteStore) GetVisit(ctx context.Context, ownerUID, farmerID, fieldID, visitID string) (*entities.Visit, error) {
	const op = "GetVisit"
	var v entities.Visit
	if err := s.db.WithContext(ctx).Where("path = ?", docpath.Visit(farmerID, fieldID, visitID)).First(&v).Error; err != nil {
		return nil, wrap(op, err)
	}
	if err := authorize(op, ownerUID, v.OwnerUID); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *sqliteStore) ListVisitsByField(ctx context.Context, ownerUID, farmerID, fieldID string) ([]entities.Visit, error) {
	const op = "ListVisitsByField"
	if err := authorize(op, ownerUID, ownerUID); err != nil {
		return nil, err
	}
	var out []entities.Visit
	err := s.db.WithContext(ctx).
		Where("parent_path = ? AND owner_uid = ?", docpath.Field(farmerID, fieldID), ownerUID).
		Order("date DESC, path DESC").
		Find(&out).Error
	return out, wrap(op, err)
}

func (s *sqliteStore) QueryVisitGroup(ctx context.Context, q repository.GroupQuery) (*repository.VisitPage, error) {
	const op = "QueryVisitGroup"
	if !s.rules.AllowCollectionGroup {
		return nil, repository.NewError(repository.CodePermissionDenied, op, errors.New("collection-group reads are not allowed"))
	}
	if err := authorize(op, q.OwnerUID, q.OwnerUID); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Where("owner_uid = ?", q.OwnerUID)
	if q.After != nil {
		tx = tx.Where("((date < ?) OR (date = ? AND path < ?))", q.After.Date, q.After.Date, q.After.Path)
	}
	tx = tx.Order("date DESC, path DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit + 1)
	}
	var rows []entities.Visit
	if err := tx.Find(&rows).Error; err != nil {
		return nil, wrap(op, err)
	}

	page := &repository.VisitPage{Items: rows}
	if q.Limit > 0 && len(rows) > q.Limit {
		page.Items = rows[:q.Limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.Next = &repository.Cursor{Date: last.Date, Path: last.Path}
	}
	return page, nil
}

func (s *sqliteStore) UpdateVisit(ctx context.Context, v *entities.Visit) error {
	const op = "UpdateVisit"
	cur, err := s.GetVisit(ctx, v.OwnerUID, v.FarmerID, v.FieldID, v.VisitID)
	if err != nil {
		return err
	}
	v.Path, v.ParentPath = cur.Path, cur.ParentPath
	return wrap(op, s.db.WithContext(ctx).Save(v).Error)
}

func (s *sqliteStore) DeleteVisit(ctx context.Context, ownerUID, farmerID, fieldID, visitID string) error {
	const op = "DeleteVisit"
	v, err := s.GetVisit(ctx, ownerUID, farmerID, fieldID, visitID)
	if err != nil {
		return err
	}
	return wrap(op, s.db.WithContext(ctx).Where("path = ?", v.Path).Delete(&entities.Visit{}).Error)
}

// --- recommendations ---

func (s *sqliteStore) CreateRecommendation(ctx context.Context, r *entities.Recommendation) error {
	const op = "CreateRecommendation"
	if err := authorize(op, r.OwnerUID, r.OwnerUID); err != nil {
		return err
	}
	if r.RecommendationID == "" {
		r.RecommendationID = newID()
	}
	return wrap(op, s.db.WithContext(ctx).Create(r).Error)
}

func (s *sqliteStore) GetRecommendation(ctx context.Context, ownerUID, id string) (*entities.Recommendation, error) {
	const op = "GetRecommendation"
	var r entities.Recommendation
	if err := s.db.WithContext(ctx).Where("recommendation_id = ?", id).First(&r).Error; err != nil {
		return nil, wrap(op, err)
	}
	if err := authorize(op, ownerUID, r.OwnerUID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *sqliteStore) ListRecommendations(ctx context.Context, ownerUID string) ([]entities.Recommendation, error) {
	const op = "ListRecommendations"
	if err := authorize(op, ownerUID, ownerUID); err != nil {
		return nil, err
	}
	var out []entities.Recommendation
	err := s.db.WithContext(ctx).Where("owner_uid = ?", ownerUID).Order("name ASC").Find(&out).Error
	return out, wrap(op, err)
}

func (s *sqliteStore) UpdateRecommendation(ctx context.Context, r *entities.Recommendation) error {
	const op = "UpdateRecommendation"
	if _, err := s.GetRecommendation(ctx, r.OwnerUID, r.RecommendationID); err != nil {
		return err
	}
	return wrap(op, s.db.WithContext(ctx).Save(r).Error)
}

func (s *sqliteStore) DeleteRecommendation(ctx context.Context, ownerUID, id string) error {
	const op = "DeleteRecommendation"
	if _, err := s.GetRecommendation(ctx, ownerUID, id); err != nil {
		return err
	}
	return wrap(op, s.db.WithContext(ctx).Where("recommendation_id = ?", id).Delete(&entities.Recommendation{}).Error)
}
