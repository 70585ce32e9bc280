package unitofwork

import (
	"context"

	"partnerlab-agent-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	LabRequestRepository() contract.LabRequestRepository
}
