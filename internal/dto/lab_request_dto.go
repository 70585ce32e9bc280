package dto

import "time"

type StartSessionRequest struct {
	UserEmail string `json:"user_email" validate:"required,email"`
}

type SessionResponse struct {
	Id             string    `json:"id"`
	UserEmail      string    `json:"user_email"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	IsActive       bool      `json:"is_active"`
	FieldsSet      int       `json:"fields_set"`
}

type ValidateFieldRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

type FieldValidationResponse struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type UpdateFieldRequest struct {
	Value interface{} `json:"value"`
}

type FieldUpdateResponse struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

type ClearFieldResponse struct {
	Field   string `json:"field"`
	Cleared bool   `json:"cleared"`
}

type CompletenessResponse struct {
	Complete      bool     `json:"complete"`
	Errors        []string `json:"errors"`
	MissingFields []string `json:"missing_fields"`
	InvalidFields []string `json:"invalid_fields"`
}

type FormSummaryResponse struct {
	Summary string `json:"summary"`
}

type LabRequestResponse struct {
	Id              uint                   `json:"id"`
	RequestState    string                 `json:"request_state"`
	Timestamp       time.Time              `json:"timestamp"`
	RequestEvalDate time.Time              `json:"request_eval_date"`
	EmailAddress    string                 `json:"email_address"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	FormData        map[string]interface{} `json:"form_data"`
}

type ListLabRequestsQuery struct {
	Email string `query:"email" validate:"required,email"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type LabRequestListResponse struct {
	Items []*LabRequestResponse `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
