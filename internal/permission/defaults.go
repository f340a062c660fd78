package permission

var (
	everyone    = NewRoleSet(RoleAdmin, RoleManager, RoleStaff, RoleViewer)
	operators   = NewRoleSet(RoleAdmin, RoleManager, RoleStaff)
	supervisors = NewRoleSet(RoleAdmin, RoleManager)
	adminOnly   = NewRoleSet(RoleAdmin)
)

func crud(res Resource, read, create, update, del RoleSet) []Rule {
	return []Rule{
		{Resource: res, Action: ActionRead, Roles: read},
		{Resource: res, Action: ActionCreate, Roles: create},
		{Resource: res, Action: ActionUpdate, Roles: update},
		{Resource: res, Action: ActionDelete, Roles: del},
	}
}

// DefaultRules is the factory's permission table.
func DefaultRules() []Rule {
	var rules []Rule
	rules = append(rules, crud(ResourceShifts, everyone, supervisors, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceFruitDeliveries, everyone, operators, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceSuppliers, everyone, supervisors, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceFruits, everyone, supervisors, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceOilExtractions, everyone, operators, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceAssets, supervisors, supervisors, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceExpenses, supervisors, operators, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceRoles, everyone, adminOnly, adminOnly, adminOnly)...)
	rules = append(rules, crud(ResourceSalary, supervisors, supervisors, adminOnly, adminOnly)...)
	rules = append(rules, crud(ResourceStaff, operators, supervisors, supervisors, adminOnly)...)
	rules = append(rules, crud(ResourceUsers, adminOnly, adminOnly, adminOnly, adminOnly)...)
	return rules
}

// DefaultTable builds the immutable table from DefaultRules.
func DefaultTable() *Table {
	return MustNewTable(DefaultRules()...)
}
