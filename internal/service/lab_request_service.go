package service

import (
	"context"
	"fmt"
	"time"

	"partnerlab-agent-be/internal/dto"
	"partnerlab-agent-be/internal/entity"
	"partnerlab-agent-be/internal/mapper"
	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/internal/repository/specification"
	"partnerlab-agent-be/internal/repository/unitofwork"
	"partnerlab-agent-be/pkg/events"
	"partnerlab-agent-be/pkg/labform"
)

const (
	SubmissionStored  = "stored"
	SubmissionInvalid = "invalid"
	SubmissionFailed  = "failed"

	defaultPageLimit = 20
)

// SubmissionRecorder counts submission outcomes.
type SubmissionRecorder interface {
	Submission(outcome string)
}

type ILabRequestService interface {
	Submit(ctx context.Context, userEmail string, form labform.FormState) (*dto.LabRequestResponse, error)
	Show(ctx context.Context, id uint) (*dto.LabRequestResponse, error)
	ListByEmail(ctx context.Context, email string, page, limit int) (*dto.LabRequestListResponse, error)
}

type labRequestService struct {
	uowFactory       unitofwork.RepositoryFactory
	engine           *labform.Engine
	publisherService IPublisherService
	metrics          SubmissionRecorder
	logger           logger.ILogger
	mapper           *mapper.LabRequestMapper
	now              func() time.Time
}

func NewLabRequestService(
	uowFactory unitofwork.RepositoryFactory,
	engine *labform.Engine,
	publisherService IPublisherService,
	metrics SubmissionRecorder,
	log logger.ILogger,
) ILabRequestService {
	return &labRequestService{
		uowFactory:       uowFactory,
		engine:           engine,
		publisherService: publisherService,
		metrics:          metrics,
		logger:           log,
		mapper:           mapper.NewLabRequestMapper(),
		now:              time.Now,
	}
}

// Submit stores a complete form as a pending request. The form is validated
// again here; an invalid form returns *labform.FormError and writes nothing.
// Storage failures return *PersistenceError.
func (s *labRequestService) Submit(ctx context.Context, userEmail string, form labform.FormState) (*dto.LabRequestResponse, error) {
	report := s.engine.ValidateForm(form)
	if !report.OK {
		s.metrics.Submission(SubmissionInvalid)
		s.logger.Info("SUBMISSION", "Rejected incomplete form", map[string]interface{}{
			"email":   userEmail,
			"missing": report.Missing,
			"invalid": report.Invalid,
		})
		return nil, report.Err()
	}

	typed, extra, err := s.mapper.DecodeForm(form)
	if err != nil {
		s.metrics.Submission(SubmissionInvalid)
		return nil, fmt.Errorf("prepare request: %w", err)
	}

	now := s.now()
	request := &entity.LabRequest{
		Timestamp:       now,
		RequestState:    entity.RequestStatePending,
		RequestEvalDate: now,
		EmailAddress:    userEmail,
		Form:            typed,
		ExtraFields:     extra,
	}

	if err := s.insert(ctx, request); err != nil {
		s.metrics.Submission(SubmissionFailed)
		s.logger.Error("SUBMISSION", "Failed to store request", map[string]interface{}{
			"email": userEmail,
			"error": err.Error(),
		})
		return nil, err
	}

	s.metrics.Submission(SubmissionStored)
	s.logger.Info("SUBMISSION", "Stored lab request", map[string]interface{}{
		"request_id": request.Id,
		"email":      userEmail,
	})

	event := events.NewLabRequestSubmitted(request.Id, userEmail, typed.CompanyName, typed.ProjectName, now)
	if err := s.publisherService.Publish(ctx, event); err != nil {
		s.logger.Warn("SUBMISSION", "Failed to publish submission event", map[string]interface{}{
			"request_id": request.Id,
			"error":      err.Error(),
		})
	}

	return s.toResponse(request), nil
}

// insert writes the request in a single transaction.
func (s *labRequestService) insert(ctx context.Context, request *entity.LabRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return newPersistenceError("begin", err)
	}
	if err := uow.LabRequestRepository().Create(ctx, request); err != nil {
		_ = uow.Rollback()
		return newPersistenceError("insert", err)
	}
	if err := uow.Commit(); err != nil {
		return newPersistenceError("commit", err)
	}
	return nil
}

func (s *labRequestService) Show(ctx context.Context, id uint) (*dto.LabRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := uow.LabRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return s.toResponse(request), nil
}

func (s *labRequestService) ListByEmail(ctx context.Context, email string, page, limit int) (*dto.LabRequestListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.LabRequestRepository()
	byEmail := specification.ByEmailAddress{Email: email}

	total, err := repo.Count(ctx, byEmail)
	if err != nil {
		return nil, err
	}
	requests, err := repo.FindAll(ctx,
		byEmail,
		specification.NewestFirst(),
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.LabRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, s.toResponse(r))
	}
	return &dto.LabRequestListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *labRequestService) toResponse(r *entity.LabRequest) *dto.LabRequestResponse {
	return &dto.LabRequestResponse{
		Id:              r.Id,
		RequestState:    r.RequestState,
		Timestamp:       r.Timestamp,
		RequestEvalDate: r.RequestEvalDate,
		EmailAddress:    r.EmailAddress,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		FormData:        s.mapper.FormData(r),
	}
}
