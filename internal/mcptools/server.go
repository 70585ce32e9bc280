// Package mcptools exposes the form session operations as MCP tools so an
// LLM driver can fill a lab request one field at a time.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/internal/service"
	"partnerlab-agent-be/pkg/labform"
)

const serverName = "partnerlab-agent"

var Version = "dev"

type Server struct {
	forms     service.IFormSessionService
	logger    logger.ILogger
	mcpServer *server.MCPServer
}

func NewServer(forms service.IFormSessionService, log logger.ILogger) *Server {
	s := &Server{
		forms:  forms,
		logger: log,
		mcpServer: server.NewMCPServer(serverName, Version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server, mostly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving JSON-RPC on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("MCP", "Serving tools over stdio", nil)
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	sessionID := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session returned by start_session"))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Open a new lab request session for the given requester."),
		mcp.WithString("user_email", mcp.Required(), mcp.Description("Email of the person filling the form")),
	), s.handleStartSession)

	s.mcpServer.AddTool(mcp.NewTool("get_form_data",
		mcp.WithDescription("Return every field recorded so far."),
		sessionID,
	), s.handleGetFormData)

	s.mcpServer.AddTool(mcp.NewTool("validate_field",
		mcp.WithDescription("Check a single value without recording it."),
		sessionID,
		mcp.WithString("field", mcp.Required(), mcp.Description("Form field name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Candidate value")),
	), s.handleValidateField)

	s.mcpServer.AddTool(mcp.NewTool("update_field",
		mcp.WithDescription("Validate a value and record it on the form. Use set_virtualization for the virtualization flag."),
		sessionID,
		mcp.WithString("field", mcp.Required(), mcp.Description("Form field name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to record")),
	), s.handleUpdateField)

	s.mcpServer.AddTool(mcp.NewTool("set_virtualization",
		mcp.WithDescription("Record whether the lab needs virtualization."),
		sessionID,
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("true when virtualization is required")),
	), s.handleSetVirtualization)

	s.mcpServer.AddTool(mcp.NewTool("check_form_completeness",
		mcp.WithDescription("Report missing and invalid fields."),
		sessionID,
	), s.handleCheckCompleteness)

	s.mcpServer.AddTool(mcp.NewTool("get_form_summary",
		mcp.WithDescription("Human readable summary of the form for confirmation."),
		sessionID,
	), s.handleGetSummary)

	s.mcpServer.AddTool(mcp.NewTool("submit_form",
		mcp.WithDescription("Submit the completed form. Ends the session on success."),
		sessionID,
	), s.handleSubmit)

	s.mcpServer.AddTool(mcp.NewTool("cancel_session",
		mcp.WithDescription("Discard the session and everything recorded on it."),
		sessionID,
	), s.handleCancel)
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := stringArg(request, "user_email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !labform.IsEmail(email) {
		return mcp.NewToolResultError("user_email must be a valid email address"), nil
	}

	resp, err := s.forms.StartSession(ctx, email)
	return s.result("start_session", resp, err)
}

func (s *Server) handleGetFormData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	form, err := s.forms.GetForm(ctx, id)
	return s.result("get_form_data", form, err)
}

func (s *Server) handleValidateField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, field, value, err := fieldArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.forms.ValidateField(ctx, id, field, value)
	return s.result("validate_field", resp, err)
}

func (s *Server) handleUpdateField(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, field, value, err := fieldArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.forms.UpdateField(ctx, id, field, value)
	return s.result("update_field", resp, err)
}

func (s *Server) handleSetVirtualization(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enabled, ok := request.GetArguments()["enabled"].(bool)
	if !ok {
		return mcp.NewToolResultError("enabled must be a boolean"), nil
	}
	resp, err := s.forms.UpdateField(ctx, id, string(labform.FieldVirtualization), enabled)
	return s.result("set_virtualization", resp, err)
}

func (s *Server) handleCheckCompleteness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.forms.CheckCompleteness(ctx, id)
	return s.result("check_form_completeness", resp, err)
}

func (s *Server) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.forms.Summary(ctx, id)
	if err != nil {
		return s.result("get_form_summary", nil, err)
	}
	return mcp.NewToolResultText(resp.Summary), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.forms.Submit(ctx, id)
	return s.result("submit_form", resp, err)
}

func (s *Server) handleCancel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := stringArg(request, "session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.forms.Cancel(ctx, id); err != nil {
		return s.result("cancel_session", nil, err)
	}
	return mcp.NewToolResultText("session cancelled"), nil
}

// result turns a service outcome into a tool result. Service errors become
// tool errors so the driver can read the message and retry.
func (s *Server) result(tool string, v interface{}, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		s.logger.Debug("MCP", "Tool call failed", map[string]interface{}{
			"tool":  tool,
			"error": err.Error(),
		})
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func stringArg(request mcp.CallToolRequest, name string) (string, error) {
	v, ok := request.GetArguments()[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}

func fieldArgs(request mcp.CallToolRequest) (id, field string, value interface{}, err error) {
	if id, err = stringArg(request, "session_id"); err != nil {
		return
	}
	if field, err = stringArg(request, "field"); err != nil {
		return
	}
	value, ok := request.GetArguments()["value"]
	if !ok {
		err = fmt.Errorf("value is required")
	}
	return
}
