package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"partnerlab-agent-be/internal/dto"
	"partnerlab-agent-be/internal/pkg/serverutils"
	"partnerlab-agent-be/internal/service"
	"partnerlab-agent-be/pkg/labform"
	"partnerlab-agent-be/pkg/session"
)

type ILabRequestController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	CancelSession(ctx *fiber.Ctx) error
	GetForm(ctx *fiber.Ctx) error
	GetFormSummary(ctx *fiber.Ctx) error
	ValidateField(ctx *fiber.Ctx) error
	UpdateField(ctx *fiber.Ctx) error
	ClearField(ctx *fiber.Ctx) error
	CheckCompleteness(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	ShowRequest(ctx *fiber.Ctx) error
	ListRequests(ctx *fiber.Ctx) error
}

type labRequestController struct {
	formSessionService service.IFormSessionService
	labRequestService  service.ILabRequestService
}

func NewLabRequestController(
	formSessionService service.IFormSessionService,
	labRequestService service.ILabRequestService,
) ILabRequestController {
	return &labRequestController{
		formSessionService: formSessionService,
		labRequestService:  labRequestService,
	}
}

func (c *labRequestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/lab-request/v1")

	h.Post("/sessions", c.StartSession)
	h.Get("/sessions/:id", c.GetSession)
	h.Delete("/sessions/:id", c.CancelSession)
	h.Get("/sessions/:id/form", c.GetForm)
	h.Get("/sessions/:id/form/summary", c.GetFormSummary)
	h.Post("/sessions/:id/fields/validate", c.ValidateField)
	h.Put("/sessions/:id/fields/:field", c.UpdateField)
	h.Delete("/sessions/:id/fields/:field", c.ClearField)
	h.Get("/sessions/:id/completeness", c.CheckCompleteness)
	h.Post("/sessions/:id/submit", c.Submit)

	h.Get("/requests", c.ListRequests)
	h.Get("/requests/:id", c.ShowRequest)
}

func (c *labRequestController) StartSession(ctx *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.formSessionService.StartSession(ctx.UserContext(), req.UserEmail)
	if err != nil {
		return mapError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success start session", res))
}

func (c *labRequestController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.formSessionService.GetSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *labRequestController) CancelSession(ctx *fiber.Ctx) error {
	if err := c.formSessionService.Cancel(ctx.UserContext(), ctx.Params("id")); err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success cancel session", nil))
}

func (c *labRequestController) GetForm(ctx *fiber.Ctx) error {
	res, err := c.formSessionService.GetForm(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get form data", res))
}

func (c *labRequestController) GetFormSummary(ctx *fiber.Ctx) error {
	res, err := c.formSessionService.Summary(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get form summary", res))
}

func (c *labRequestController) ValidateField(ctx *fiber.Ctx) error {
	var req dto.ValidateFieldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.formSessionService.ValidateField(ctx.UserContext(), ctx.Params("id"), req.Field, req.Value)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success validate field", res))
}

func (c *labRequestController) UpdateField(ctx *fiber.Ctx) error {
	var req dto.UpdateFieldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(err)
	}

	res, err := c.formSessionService.UpdateField(ctx.UserContext(), ctx.Params("id"), ctx.Params("field"), req.Value)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update field", res))
}

func (c *labRequestController) ClearField(ctx *fiber.Ctx) error {
	res, err := c.formSessionService.ClearField(ctx.UserContext(), ctx.Params("id"), ctx.Params("field"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear field", res))
}

func (c *labRequestController) CheckCompleteness(ctx *fiber.Ctx) error {
	res, err := c.formSessionService.CheckCompleteness(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success check completeness", res))
}

func (c *labRequestController) Submit(ctx *fiber.Ctx) error {
	res, err := c.formSessionService.Submit(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success submit lab request", res))
}

func (c *labRequestController) ShowRequest(ctx *fiber.Ctx) error {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return serverutils.NewAPIError(fiber.StatusBadRequest, "id must be a positive integer", nil)
	}

	res, err := c.labRequestService.Show(ctx.UserContext(), uint(id))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get lab request", res))
}

func (c *labRequestController) ListRequests(ctx *fiber.Ctx) error {
	var q dto.ListLabRequestsQuery
	if err := ctx.QueryParser(&q); err != nil {
		return badRequest(err)
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return err
	}

	res, err := c.labRequestService.ListByEmail(ctx.UserContext(), q.Email, q.Page, q.Limit)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list lab requests", res))
}

func badRequest(err error) error {
	return serverutils.NewAPIError(fiber.StatusBadRequest, err.Error(), nil)
}

// mapError turns domain errors into HTTP statuses. Anything unknown is left
// for the error middleware to report as a 500.
func mapError(err error) error {
	var verr *labform.ValidationError
	var ferr *labform.FormError
	var perr *service.PersistenceError

	switch {
	case errors.As(err, &verr):
		return serverutils.NewAPIError(fiber.StatusUnprocessableEntity, verr.Message, fiber.Map{"field": verr.Field})
	case errors.As(err, &ferr):
		return serverutils.NewAPIError(fiber.StatusUnprocessableEntity, "Form is incomplete or invalid", fiber.Map{
			"errors":         ferr.Errors,
			"missing_fields": ferr.Missing,
			"invalid_fields": ferr.Invalid,
		})
	case errors.Is(err, labform.ErrUnvalidated):
		return serverutils.NewAPIError(fiber.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, session.ErrSessionNotFound):
		return serverutils.NewAPIError(fiber.StatusNotFound, "Session not found or expired", nil)
	case errors.Is(err, service.ErrRequestNotFound):
		return serverutils.NewAPIError(fiber.StatusNotFound, "Lab request not found", nil)
	case errors.As(err, &perr):
		return serverutils.NewAPIError(fiber.StatusServiceUnavailable, "submission failed, please retry", nil)
	default:
		return err
	}
}
