package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudefi-api/internal/apperror"
)

func call(t *testing.T, err error) (int, Envelope) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Error(c, err) })

	resp, e := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, e)
	defer resp.Body.Close()

	raw, e := io.ReadAll(resp.Body)
	require.NoError(t, e)
	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

func TestErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperror.Unauthenticated("no token"), 401, "unauthenticated"},
		{apperror.Forbidden("nope", nil), 403, "forbidden"},
		{apperror.Validation("bad"), 400, "validation_error"},
		{apperror.NotFound("missing"), 404, "not_found"},
		{errors.New("db down"), 500, "server_error"},
	}
	for _, tc := range cases {
		status, env := call(t, tc.err)
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.code, env.Code)
		assert.False(t, env.Success)
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	_, env := call(t, apperror.Internal(errors.New("pq: password authentication failed")))
	assert.Equal(t, "Internal server error", env.Message)
	assert.Nil(t, env.Details)
}

func TestErrorKeepsDetails(t *testing.T) {
	_, env := call(t, apperror.Forbidden("forbidden", map[string]string{"resource": "shifts"}))
	assert.Equal(t, map[string]interface{}{"resource": "shifts"}, env.Details)
}
