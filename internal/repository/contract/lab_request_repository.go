package contract

import (
	"context"

	"partnerlab-agent-be/internal/entity"
	"partnerlab-agent-be/internal/repository/specification"
)

type LabRequestRepository interface {
	Create(ctx context.Context, request *entity.LabRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LabRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LabRequest, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
