package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/service"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request. Its role is fixed for
// the lifetime of the request.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     permission.Role

	table *permission.Table
}

func newPrincipal(user *model.User, table *permission.Table) *Principal {
	return &Principal{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		table:    table,
	}
}

func (p *Principal) IsAdmin() bool   { return p.Role == permission.RoleAdmin }
func (p *Principal) IsManager() bool { return p.Role == permission.RoleManager }
func (p *Principal) IsStaff() bool   { return p.Role == permission.RoleStaff }
func (p *Principal) IsViewer() bool  { return p.Role == permission.RoleViewer }

// HasPermission checks the permission table. Unknown pairs are never allowed.
func (p *Principal) HasPermission(resource permission.Resource, action permission.Action) bool {
	if p.table == nil {
		return false
	}
	return p.table.Allows(p.Role, resource, action)
}

// Actor converts the principal for the service layer.
func (p *Principal) Actor() service.Actor {
	return service.Actor{
		UserID:   p.UserID,
		Email:    p.Email,
		FullName: p.FullName,
		Role:     p.Role,
	}
}

// CurrentPrincipal returns the principal stored by RequireAuth.
func CurrentPrincipal(c *fiber.Ctx) (*Principal, bool) {
	p, ok := c.Locals(principalKey).(*Principal)
	return p, ok && p != nil
}
