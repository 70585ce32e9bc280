package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"partnerlab-agent-be/internal/entity"
	"partnerlab-agent-be/internal/mapper"
	"partnerlab-agent-be/internal/model"
	"partnerlab-agent-be/internal/repository/contract"
	"partnerlab-agent-be/internal/repository/specification"
)

type LabRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LabRequestMapper
}

func NewLabRequestRepository(db *gorm.DB) contract.LabRequestRepository {
	return &LabRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewLabRequestMapper(),
	}
}

func (r *LabRequestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Create inserts the request and copies generated columns back into it.
func (r *LabRequestRepositoryImpl) Create(ctx context.Context, request *entity.LabRequest) error {
	m := r.mapper.ToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	request.Id = m.Id
	request.CreatedAt = m.CreatedAt
	request.UpdatedAt = m.UpdatedAt
	request.RequestState = m.RequestState
	return nil
}

func (r *LabRequestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LabRequest, error) {
	var m model.LabRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LabRequestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LabRequest, error) {
	var models []*model.LabRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LabRequestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LabRequest{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
