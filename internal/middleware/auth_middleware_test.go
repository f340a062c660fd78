package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
)

// stubAuth accepts "<role>-token" for every role.
type stubAuth struct {
	service.AuthService
}

func (stubAuth) Authenticate(token string) (*model.User, error) {
	for _, r := range permission.AllRoles() {
		if token == r.String()+"-token" {
			u := &model.User{Email: r.String() + "@crudefi.local", Role: r, IsActive: true}
			u.ID = uuid.New()
			return u, nil
		}
	}
	return nil, apperror.Unauthenticated("invalid or expired token")
}

func (stubAuth) AuthenticateEmail(email string) (*model.User, error) {
	return &model.User{Email: email, Role: permission.RoleAdmin, IsActive: true}, nil
}

func newTestApp(table *permission.Table, resource permission.Resource, action permission.Action) *fiber.App {
	app := fiber.New()
	app.Get("/thing",
		RequireAuth(AuthConfig{Auth: stubAuth{}, Table: table}),
		Authorize(table, resource, action),
		func(c *fiber.Ctx) error {
			p, _ := CurrentPrincipal(c)
			return response.OK(c, fiber.Map{
				"role":       p.Role,
				"can_delete": p.HasPermission(permission.ResourceShifts, permission.ActionDelete),
			})
		},
	)
	return app
}

func do(t *testing.T, app *fiber.App, header string) (int, response.Envelope) {
	t.Helper()
	req := httptest.NewRequest("GET", "/thing", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

func TestUnauthenticatedBeforePermission(t *testing.T) {
	app := newTestApp(permission.DefaultTable(), permission.ResourceShifts, permission.ActionCreate)

	status, env := do(t, app, "")
	assert.Equal(t, 401, status)
	assert.Equal(t, "unauthenticated", env.Code)

	status, _ = do(t, app, "Bearer nobody-token")
	assert.Equal(t, 401, status)

	status, _ = do(t, app, "Token manager-token")
	assert.Equal(t, 401, status)
}

func TestForbiddenNamesRequiredRoles(t *testing.T) {
	app := newTestApp(permission.DefaultTable(), permission.ResourceShifts, permission.ActionCreate)

	status, env := do(t, app, "Bearer staff-token")
	assert.Equal(t, 403, status)
	assert.Equal(t, "forbidden", env.Code)
	assert.Equal(t, "forbidden: shifts:create requires one of [admin manager], you are staff", env.Message)

	details, ok := env.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "shifts", details["resource"])
	assert.Equal(t, "create", details["action"])
	assert.Equal(t, "staff", details["role"])
	assert.Equal(t, []interface{}{"admin", "manager"}, details["allowed_roles"])
}

func TestAllowedRolesPass(t *testing.T) {
	app := newTestApp(permission.DefaultTable(), permission.ResourceShifts, permission.ActionCreate)

	status, env := do(t, app, "Bearer manager-token")
	assert.Equal(t, 200, status)
	assert.True(t, env.Success)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "manager", data["role"])
	assert.Equal(t, false, data["can_delete"])

	status, env = do(t, app, "Bearer admin-token")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, env.Data.(map[string]interface{})["can_delete"])
}

func TestUnknownPairIsValidationError(t *testing.T) {
	app := newTestApp(permission.DefaultTable(), permission.Resource("reports"), permission.ActionRead)

	status, env := do(t, app, "Bearer admin-token")
	assert.Equal(t, 400, status)
	assert.Equal(t, "validation_error", env.Code)
	assert.Equal(t, "invalid resource/action", env.Message)
}

func TestQueryTokenOnlyWhenAllowed(t *testing.T) {
	table := permission.DefaultTable()
	handler := func(c *fiber.Ctx) error { return c.SendStatus(204) }

	app := fiber.New()
	app.Get("/strict", RequireAuth(AuthConfig{Auth: stubAuth{}, Table: table}), handler)
	app.Get("/ws", RequireAuth(AuthConfig{Auth: stubAuth{}, Table: table, AllowQueryToken: true}), handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/strict?token=viewer-token", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ws?token=viewer-token", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}

func TestPrincipalPredicates(t *testing.T) {
	p := &Principal{Role: permission.RoleViewer, table: permission.DefaultTable()}
	assert.True(t, p.IsViewer())
	assert.False(t, p.IsAdmin())
	assert.False(t, p.IsManager())
	assert.False(t, p.IsStaff())
	assert.True(t, p.HasPermission(permission.ResourceFruits, permission.ActionRead))
	assert.False(t, p.HasPermission(permission.ResourceExpenses, permission.ActionRead))
	assert.False(t, p.HasPermission(permission.Resource("reports"), permission.ActionRead))
	assert.Equal(t, permission.RoleViewer, p.Actor().Role)
}
