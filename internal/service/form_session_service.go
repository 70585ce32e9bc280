package service

import (
	"context"
	"errors"
	"fmt"

	"partnerlab-agent-be/internal/dto"
	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/pkg/labform"
	"partnerlab-agent-be/pkg/session"
)

// IFormSessionService is the operation set the conversational driver calls,
// one field at a time.
type IFormSessionService interface {
	StartSession(ctx context.Context, userEmail string) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
	GetForm(ctx context.Context, sessionId string) (map[string]interface{}, error)
	ValidateField(ctx context.Context, sessionId, field string, value interface{}) (*dto.FieldValidationResponse, error)
	UpdateField(ctx context.Context, sessionId, field string, value interface{}) (*dto.FieldUpdateResponse, error)
	ClearField(ctx context.Context, sessionId, field string) (*dto.ClearFieldResponse, error)
	CheckCompleteness(ctx context.Context, sessionId string) (*dto.CompletenessResponse, error)
	Summary(ctx context.Context, sessionId string) (*dto.FormSummaryResponse, error)
	Submit(ctx context.Context, sessionId string) (*dto.LabRequestResponse, error)
	Cancel(ctx context.Context, sessionId string) error
}

type formSessionService struct {
	sessions          *session.Manager
	engine            *labform.Engine
	labRequestService ILabRequestService
	logger            logger.ILogger
}

func NewFormSessionService(
	sessions *session.Manager,
	engine *labform.Engine,
	labRequestService ILabRequestService,
	log logger.ILogger,
) IFormSessionService {
	return &formSessionService{
		sessions:          sessions,
		engine:            engine,
		labRequestService: labRequestService,
		logger:            log,
	}
}

func (s *formSessionService) StartSession(ctx context.Context, userEmail string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.Create(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(sess), nil
}

func (s *formSessionService) GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error) {
	sess, err := s.sessions.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(sess), nil
}

func (s *formSessionService) GetForm(ctx context.Context, sessionId string) (map[string]interface{}, error) {
	form, err := s.sessions.FormData(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return form.AsMap(), nil
}

// ValidateField checks a value without storing it.
func (s *formSessionService) ValidateField(ctx context.Context, sessionId, field string, value interface{}) (*dto.FieldValidationResponse, error) {
	if _, err := s.sessions.Get(ctx, sessionId); err != nil {
		return nil, err
	}
	res := s.engine.ValidateField(labform.Field(field), value)
	return &dto.FieldValidationResponse{
		Field:   field,
		Valid:   res.OK,
		Message: res.Message,
	}, nil
}

// UpdateField validates and stores a value. A rejected value returns a
// *labform.ValidationError and leaves the form unchanged.
func (s *formSessionService) UpdateField(ctx context.Context, sessionId, field string, value interface{}) (*dto.FieldUpdateResponse, error) {
	f := labform.Field(field)
	if spec, ok := labform.Lookup(f); ok && spec.System {
		return nil, &labform.ValidationError{Field: f, Message: fmt.Sprintf("%s is set at submission and cannot be written", field)}
	}

	res := s.engine.ValidateField(f, value)
	token, ok := res.Validated()
	if !ok {
		return nil, res.Err()
	}
	if err := s.sessions.UpdateField(ctx, sessionId, token); err != nil {
		return nil, err
	}
	return &dto.FieldUpdateResponse{Field: field, Value: value}, nil
}

func (s *formSessionService) ClearField(ctx context.Context, sessionId, field string) (*dto.ClearFieldResponse, error) {
	cleared, err := s.sessions.ClearField(ctx, sessionId, labform.Field(field))
	if err != nil {
		return nil, err
	}
	return &dto.ClearFieldResponse{Field: field, Cleared: cleared}, nil
}

func (s *formSessionService) CheckCompleteness(ctx context.Context, sessionId string) (*dto.CompletenessResponse, error) {
	report, err := s.sessions.CheckCompleteness(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.CompletenessResponse{
		Complete:      report.OK,
		Errors:        report.Errors,
		MissingFields: fieldNames(report.Missing),
		InvalidFields: fieldNames(report.Invalid),
	}, nil
}

func (s *formSessionService) Summary(ctx context.Context, sessionId string) (*dto.FormSummaryResponse, error) {
	text, err := s.sessions.Summary(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.FormSummaryResponse{Summary: text}, nil
}

// Submit stores the session's form and then retires the session. When the
// submission fails the session and its form are kept for a retry.
func (s *formSessionService) Submit(ctx context.Context, sessionId string) (*dto.LabRequestResponse, error) {
	sess, err := s.sessions.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	res, err := s.labRequestService.Submit(ctx, sess.UserEmail, sess.Form)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, sessionId); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		s.logger.Warn("SESSION", "Failed to close submitted session", map[string]interface{}{
			"session_id": sessionId,
			"request_id": res.Id,
			"error":      err.Error(),
		})
	}
	return res, nil
}

func (s *formSessionService) Cancel(ctx context.Context, sessionId string) error {
	return s.sessions.Delete(ctx, sessionId)
}

func toSessionResponse(sess *session.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:             sess.ID,
		UserEmail:      sess.UserEmail,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		IsActive:       sess.IsActive,
		FieldsSet:      sess.Form.Len(),
	}
}

func fieldNames(fields []labform.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
