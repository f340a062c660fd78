package permission

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMatchesDeclaredRules(t *testing.T) {
	rules := DefaultRules()
	table := MustNewTable(rules...)

	for _, rule := range rules {
		for _, role := range AllRoles() {
			err := table.Check(role, rule.Resource, rule.Action)
			if rule.Roles.Has(role) {
				assert.NoError(t, err, "%s should be allowed %s:%s", role, rule.Resource, rule.Action)
				continue
			}
			var forbidden *ForbiddenError
			require.ErrorAs(t, err, &forbidden, "%s should be denied %s:%s", role, rule.Resource, rule.Action)
			assert.Equal(t, role, forbidden.Role)
			assert.Equal(t, rule.Roles, forbidden.Allowed)
		}
	}
}

func TestUnknownPairNeverAllows(t *testing.T) {
	table := DefaultTable()

	for _, role := range AllRoles() {
		err := table.Check(role, Resource("dashboard"), ActionRead)
		assert.ErrorIs(t, err, ErrUnknownRule)
		assert.False(t, table.Allows(role, Resource("dashboard"), ActionRead))

		err = table.Check(role, ResourceShifts, Action(42))
		assert.ErrorIs(t, err, ErrUnknownRule)
	}
}

func TestPartiallyDeclaredResource(t *testing.T) {
	table := MustNewTable(Rule{Resource: "reports", Action: ActionRead, Roles: NewRoleSet(RoleAdmin)})

	assert.NoError(t, table.Check(RoleAdmin, "reports", ActionRead))
	assert.ErrorIs(t, table.Check(RoleAdmin, "reports", ActionDelete), ErrUnknownRule)
}

func TestForbiddenMessageNamesRoles(t *testing.T) {
	table := DefaultTable()

	err := table.Check(RoleStaff, ResourceShifts, ActionCreate)
	require.Error(t, err)
	assert.Equal(t, "forbidden: shifts:create requires one of [admin manager], you are staff", err.Error())
	assert.False(t, errors.Is(err, ErrUnknownRule))
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable(
		Rule{Resource: ResourceFruits, Action: ActionRead, Roles: everyone},
		Rule{Resource: ResourceFruits, Action: ActionRead, Roles: adminOnly},
	)
	assert.Error(t, err)
}

func TestAdminHoldsEveryGrant(t *testing.T) {
	table := DefaultTable()
	grants := table.Grants(RoleAdmin)

	for _, res := range table.Resources() {
		assert.ElementsMatch(t, AllActions(), grants[res], "admin grants on %s", res)
	}
	assert.NotContains(t, table.Grants(RoleViewer), ResourceUsers)
}

func TestViewerSeesNoFinancials(t *testing.T) {
	table := DefaultTable()
	grants := table.Grants(RoleViewer)

	for _, res := range []Resource{ResourceAssets, ResourceExpenses, ResourceSalary} {
		assert.NotContains(t, grants, res)
		assert.Error(t, table.Check(RoleViewer, res, ActionRead), "viewer read on %s", res)
	}
	assert.Equal(t, []Action{ActionRead}, grants[ResourceFruitDeliveries])
}

func TestRoleText(t *testing.T) {
	r, err := ParseRole(" Manager ")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)

	_, err = ParseRole("owner")
	assert.Error(t, err)

	data, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleViewer})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"viewer"}`, string(data))

	var decoded struct {
		Role Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"role":"staff"}`), &decoded))
	assert.Equal(t, RoleStaff, decoded.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"root"}`), &decoded))
}

func TestRoleScanAndValue(t *testing.T) {
	v, err := RoleAdmin.Value()
	require.NoError(t, err)
	assert.Equal(t, "admin", v)

	var r Role
	require.NoError(t, r.Scan([]byte("viewer")))
	assert.Equal(t, RoleViewer, r)
	assert.Error(t, r.Scan(12))
}

func TestRoleSetString(t *testing.T) {
	assert.Equal(t, "[admin staff]", NewRoleSet(RoleStaff, RoleAdmin).String())
	assert.Equal(t, "[]", RoleSet(0).String())
}
