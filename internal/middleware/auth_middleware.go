package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/response"
	"crudefi-api/internal/service"
	"crudefi-api/pkg/jwt"
)

// AuthConfig configures RequireAuth.
type AuthConfig struct {
	Auth  service.AuthService
	Table *permission.Table

	// AllowQueryToken accepts ?token= when no header is sent. Browsers cannot
	// set headers on websocket upgrades.
	AllowQueryToken bool

	// DevAutoLoginEmail authenticates header-less requests as this user.
	// Only binaries built with the devauth tag honor it.
	DevAutoLoginEmail string
}

// RequireAuth is middleware that validates the bearer token and stores the
// caller's Principal in the request locals.
func RequireAuth(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)

		var tokenString string
		switch {
		case authHeader != "":
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return response.Error(c, apperror.Unauthenticated("Invalid authorization format. Use: Bearer <token>"))
			}
			tokenString = parts[1]
		case cfg.AllowQueryToken && c.Query("token") != "":
			tokenString = c.Query("token")
		case devAutoLoginCompiled && cfg.DevAutoLoginEmail != "":
			user, err := cfg.Auth.AuthenticateEmail(cfg.DevAutoLoginEmail)
			if err != nil {
				return response.Error(c, err)
			}
			setPrincipal(c, newPrincipal(user, cfg.Table))
			return c.Next()
		default:
			return response.Error(c, apperror.Wrap(apperror.KindUnauthenticated, jwt.ErrMissingToken))
		}

		user, err := cfg.Auth.Authenticate(tokenString)
		if err != nil {
			return response.Error(c, err)
		}

		setPrincipal(c, newPrincipal(user, cfg.Table))
		return c.Next()
	}
}

func setPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(principalKey, p)
	c.Locals("user_id", p.UserID.String())
	c.Locals("user_email", p.Email)
	c.Locals("user_name", p.FullName)
	c.Locals("user_role", p.Role.String())
}

// ForbiddenDetails is the details payload of a 403 response.
type ForbiddenDetails struct {
	Resource     permission.Resource `json:"resource"`
	Action       permission.Action   `json:"action"`
	Role         string              `json:"role"`
	AllowedRoles []string            `json:"allowed_roles"`
}

// Authorize checks the caller's role against the table entry for the route.
// It must run after RequireAuth.
func Authorize(table *permission.Table, resource permission.Resource, action permission.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return response.Error(c, apperror.Unauthenticated("Missing authorization token"))
		}

		err := table.Check(p.Role, resource, action)
		if err == nil {
			return c.Next()
		}

		var forbidden *permission.ForbiddenError
		if errors.As(err, &forbidden) {
			allowed := make([]string, 0, len(forbidden.Allowed.Roles()))
			for _, r := range forbidden.Allowed.Roles() {
				allowed = append(allowed, r.String())
			}
			return response.Error(c, apperror.Forbidden(forbidden.Error(), ForbiddenDetails{
				Resource:     resource,
				Action:       action,
				Role:         p.Role.String(),
				AllowedRoles: allowed,
			}))
		}
		if errors.Is(err, permission.ErrUnknownRule) {
			return response.Error(c, apperror.Validation(permission.ErrUnknownRule.Error()))
		}
		return response.Error(c, apperror.Forbidden(err.Error(), nil))
	}
}
