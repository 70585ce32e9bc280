package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerlab-agent-be/internal/pkg/logger"
)

type signup struct {
	Email string `validate:"required,email"`
	Limit int    `validate:"omitempty,max=10"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(signup{Email: "a@b.co"}))

	err := ValidateRequest(signup{Email: "nope", Limit: 11})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, map[string]string{
		"Email": "Email must be a valid email",
		"Limit": "Limit must be at most 10",
	}, apiErr.Data)
}

func decode(t *testing.T, body io.Reader) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.NewDecoder(body).Decode(&r))
	return r
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/api", func(c *fiber.Ctx) error { return NewAPIError(422, "bad value", fiber.Map{"field": "x"}) })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse("fine", 1)) })

	cases := []struct {
		path    string
		status  int
		message string
	}{
		{"/api", 422, "bad value"},
		{"/fiber", 404, "Not Found"},
		{"/boom", 500, "internal server error"},
		{"/ok", 200, "fine"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)

		body := decode(t, resp.Body)
		assert.Equal(t, tc.message, body.Message, tc.path)
		assert.Equal(t, tc.status == 200, body.Success, tc.path)
	}
}
