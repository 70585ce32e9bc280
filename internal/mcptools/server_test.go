package mcptools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerlab-agent-be/internal/dto"
	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/internal/repository/memory"
	"partnerlab-agent-be/internal/service"
	"partnerlab-agent-be/pkg/labform"
	"partnerlab-agent-be/pkg/session"
)

type stubLabRequestService struct {
	submitted []map[string]interface{}
}

func (s *stubLabRequestService) Submit(ctx context.Context, email string, form labform.FormState) (*dto.LabRequestResponse, error) {
	if report := labform.NewEngine().ValidateForm(form); !report.OK {
		return nil, report.Err()
	}
	s.submitted = append(s.submitted, form.AsMap())
	return &dto.LabRequestResponse{Id: uint(len(s.submitted)), RequestState: "pending", EmailAddress: email}, nil
}

func (s *stubLabRequestService) Show(ctx context.Context, id uint) (*dto.LabRequestResponse, error) {
	return nil, service.ErrRequestNotFound
}

func (s *stubLabRequestService) ListByEmail(ctx context.Context, email string, page, limit int) (*dto.LabRequestListResponse, error) {
	return &dto.LabRequestListResponse{}, nil
}

func newTestServer() (*Server, *stubLabRequestService) {
	engine := labform.NewEngine()
	mgr := session.NewManager(memory.NewSessionRepository(time.Hour, time.Minute), engine)
	labSvc := &stubLabRequestService{}
	forms := service.NewFormSessionService(mgr, engine, labSvc, logger.NewNopLogger())
	return NewServer(forms, logger.NewNopLogger()), labSvc
}

func request(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func startSession(t *testing.T, s *Server) string {
	t.Helper()
	res, err := s.handleStartSession(context.Background(), request(map[string]any{"user_email": "owner@acme.com"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var out dto.SessionResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	require.NotEmpty(t, out.Id)
	return out.Id
}

func TestServer_RegistersEveryTool(t *testing.T) {
	s, _ := newTestServer()

	names := make([]string, 0)
	for name := range s.MCPServer().ListTools() {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{
		"start_session", "get_form_data", "validate_field", "update_field",
		"set_virtualization", "check_form_completeness", "get_form_summary",
		"submit_form", "cancel_session",
	}, names)
}

func TestServer_StartSessionRejectsBadEmail(t *testing.T) {
	s, _ := newTestServer()

	res, err := s.handleStartSession(context.Background(), request(map[string]any{"user_email": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleStartSession(context.Background(), request(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "user_email is required", text(t, res))
}

func TestServer_UpdateFieldReportsValidationMessage(t *testing.T) {
	s, _ := newTestServer()
	id := startSession(t, s)
	ctx := context.Background()

	res, err := s.handleUpdateField(ctx, request(map[string]any{"session_id": id, "field": "timezone", "value": "Mars/Olympus"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Invalid timezone. Must be a valid IANA timezone", text(t, res))

	res, err = s.handleUpdateField(ctx, request(map[string]any{"session_id": id, "field": "timezone", "value": "Europe/Paris"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleGetFormData(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	var form map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &form))
	assert.Equal(t, map[string]any{"timezone": "Europe/Paris"}, form)
}

func TestServer_ValidateFieldDoesNotWrite(t *testing.T) {
	s, _ := newTestServer()
	id := startSession(t, s)
	ctx := context.Background()

	res, err := s.handleValidateField(ctx, request(map[string]any{"session_id": id, "field": "openshift_version", "value": "3.11"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out dto.FieldValidationResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.False(t, out.Valid)
	assert.Equal(t, "OpenShift version must be in format 4.y or 4.y.z", out.Message)

	res, err = s.handleGetFormData(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.Equal(t, "{}", text(t, res))
}

func TestServer_SetVirtualizationRequiresBoolean(t *testing.T) {
	s, _ := newTestServer()
	id := startSession(t, s)
	ctx := context.Background()

	res, err := s.handleSetVirtualization(ctx, request(map[string]any{"session_id": id, "enabled": "true"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleSetVirtualization(ctx, request(map[string]any{"session_id": id, "enabled": true}))
	require.NoError(t, err)
	assert.False(t, res.IsError, text(t, res))

	// the string form is rejected by the strict boolean rule
	res, err = s.handleUpdateField(ctx, request(map[string]any{"session_id": id, "field": "virtualization", "value": "true"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Virtualization must be a boolean value", text(t, res))
}

func TestServer_FullConversation(t *testing.T) {
	s, labSvc := newTestServer()
	id := startSession(t, s)
	ctx := context.Background()

	fields := map[string]string{
		"company_name":          "Acme",
		"primary_contact_name":  "Jordan Lee",
		"primary_contact_email": "jordan@acme.com",
		"sponsor_email":         "sponsor@partner.com",
		"project_name":          "Edge rollout",
		"desired_start_date":    "2025-03-01",
		"lease_duration":        "2w",
		"timezone":              "America/New_York",
		"openshift_version":     "4.14",
		"application_type":      "workload",
		"request_type":          "general",
		"cluster_size":          "medium",
		"cloud_provider":        "aws",
		"description":           "Validate operator on managed clusters",
	}
	for field, value := range fields {
		res, err := s.handleUpdateField(ctx, request(map[string]any{"session_id": id, "field": field, "value": value}))
		require.NoError(t, err)
		require.False(t, res.IsError, "%s: %s", field, text(t, res))
	}

	res, err := s.handleCheckCompleteness(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	var report dto.CompletenessResponse
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &report))
	assert.False(t, report.Complete)
	assert.Equal(t, []string{"scope_of_work"}, report.MissingFields)

	res, err = s.handleSubmit(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "incomplete form must not submit")
	assert.Empty(t, labSvc.submitted)

	res, err = s.handleUpdateField(ctx, request(map[string]any{"session_id": id, "field": "scope_of_work", "value": "Install and soak test"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = s.handleGetSummary(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "Acme")

	res, err = s.handleSubmit(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Len(t, labSvc.submitted, 1)

	// the session ends with a successful submission
	res, err = s.handleGetFormData(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_CancelSession(t *testing.T) {
	s, _ := newTestServer()
	id := startSession(t, s)
	ctx := context.Background()

	res, err := s.handleCancel(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "session cancelled", text(t, res))

	res, err = s.handleCancel(ctx, request(map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
