package permission

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Role is the role of an authenticated user.
type Role uint8

const (
	// roleUnknown is the zero value so an unset role never grants anything.
	roleUnknown Role = iota
	RoleAdmin
	RoleManager
	RoleStaff
	RoleViewer

	numRoles
)

var roleNames = [numRoles]string{
	roleUnknown: "",
	RoleAdmin:   "admin",
	RoleManager: "manager",
	RoleStaff:   "staff",
	RoleViewer:  "viewer",
}

// AllRoles lists every role in declaration order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleStaff, RoleViewer}
}

func (r Role) String() string {
	if r.Valid() {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool { return r > roleUnknown && r < numRoles }

// ParseRole converts a role name (case-insensitive) into a Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllRoles() {
		if roleNames[r] == name {
			return r, nil
		}
	}
	return roleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role as its name.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return roleNames[r], nil
}

func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}

// Action is the CRUD verb of a permission rule.
type Action uint8

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete

	numActions
)

var actionNames = [numActions]string{
	ActionRead:   "read",
	ActionCreate: "create",
	ActionUpdate: "update",
	ActionDelete: "delete",
}

func AllActions() []Action {
	return []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
}

func (a Action) String() string {
	if a < numActions {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

func (a Action) Valid() bool { return a < numActions }

func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid action %d", uint8(a))
	}
	return []byte(actionNames[a]), nil
}

// Resource is the entity half of a permission lookup key. It matches the route name.
type Resource string

const (
	ResourceShifts          Resource = "shifts"
	ResourceFruitDeliveries Resource = "fruit-deliveries"
	ResourceSuppliers       Resource = "suppliers"
	ResourceFruits          Resource = "fruits"
	ResourceOilExtractions  Resource = "oil-extractions"
	ResourceAssets          Resource = "assets"
	ResourceExpenses        Resource = "expenses"
	ResourceRoles           Resource = "roles"
	ResourceSalary          Resource = "salary"
	ResourceStaff           Resource = "staff"
	ResourceUsers           Resource = "users"
)

// RoleSet is a bitmask of roles.
type RoleSet uint8

func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

// Roles returns the members in declaration order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, numRoles)
	for _, r := range AllRoles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	names := make([]string, 0, numRoles)
	for _, r := range s.Roles() {
		names = append(names, r.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}

var (
	// ErrUnknownRule means the resource/action pair is not declared in the table.
	ErrUnknownRule = errors.New("invalid resource/action")
	ErrInvalidRole = errors.New("invalid role")
)

// ForbiddenError reports a denied check together with the rule that denied it.
type ForbiddenError struct {
	Resource Resource
	Action   Action
	Role     Role
	Allowed  RoleSet
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s:%s requires one of %s, you are %s",
		e.Resource, e.Action, e.Allowed, e.Role)
}

// Rule declares which roles may perform an action on a resource.
type Rule struct {
	Resource Resource
	Action   Action
	Roles    RoleSet
}

type ruleSlot struct {
	defined bool
	roles   RoleSet
}

// Table is the immutable resource -> action -> roles mapping.
// A Table is safe for concurrent use because nothing mutates it after NewTable.
type Table struct {
	rules map[Resource][numActions]ruleSlot
}

// NewTable builds a table from rules. Declaring the same pair twice is an error.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make(map[Resource][numActions]ruleSlot)}
	for _, rule := range rules {
		if rule.Resource == "" {
			return nil, fmt.Errorf("rule with empty resource")
		}
		if !rule.Action.Valid() {
			return nil, fmt.Errorf("rule %s: %w", rule.Resource, ErrUnknownRule)
		}
		slots := t.rules[rule.Resource]
		if slots[rule.Action].defined {
			return nil, fmt.Errorf("duplicate rule %s:%s", rule.Resource, rule.Action)
		}
		slots[rule.Action] = ruleSlot{defined: true, roles: rule.Roles}
		t.rules[rule.Resource] = slots
	}
	return t, nil
}

// MustNewTable is NewTable for tables declared in code.
func MustNewTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the roles allowed for the pair.
func (t *Table) Lookup(resource Resource, action Action) (RoleSet, error) {
	if !action.Valid() {
		return 0, ErrUnknownRule
	}
	slots, ok := t.rules[resource]
	if !ok || !slots[action].defined {
		return 0, ErrUnknownRule
	}
	return slots[action].roles, nil
}

// Check returns nil when role may perform action on resource, a *ForbiddenError
// when it may not, and ErrUnknownRule when the pair is not declared.
func (t *Table) Check(role Role, resource Resource, action Action) error {
	allowed, err := t.Lookup(resource, action)
	if err != nil {
		return err
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	if !allowed.Has(role) {
		return &ForbiddenError{Resource: resource, Action: action, Role: role, Allowed: allowed}
	}
	return nil
}

// Allows is the boolean form of Check. Unknown pairs never allow.
func (t *Table) Allows(role Role, resource Resource, action Action) bool {
	return t.Check(role, resource, action) == nil
}

// Validate confirms the pair is declared.
func (t *Table) Validate(resource Resource, action Action) error {
	_, err := t.Lookup(resource, action)
	if err != nil {
		return fmt.Errorf("%s:%s: %w", resource, action, err)
	}
	return nil
}

// Resources returns the declared resources sorted by name.
func (t *Table) Resources() []Resource {
	out := make([]Resource, 0, len(t.rules))
	for r := range t.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Grants lists the actions each resource allows for role.
func (t *Table) Grants(role Role) map[Resource][]Action {
	out := make(map[Resource][]Action)
	for _, res := range t.Resources() {
		for _, a := range AllActions() {
			if t.Allows(role, res, a) {
				out[res] = append(out[res], a)
			}
		}
	}
	return out
}
