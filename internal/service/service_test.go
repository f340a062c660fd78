package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/repository"
	"crudefi-api/internal/testutil"
	"crudefi-api/pkg/jwt"
)

type testEnv struct {
	users      repository.UserRepository
	workRoles  repository.WorkRoleRepository
	staffRepo  repository.StaffRepository
	shiftRepo  repository.ShiftRepository
	salaryRepo repository.SalaryRepository

	auth   AuthService
	shifts ShiftService
	salary SalaryService

	manager Actor
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	env := &testEnv{
		users:      repository.NewUserRepo(db),
		workRoles:  repository.NewWorkRoleRepo(db),
		staffRepo:  repository.NewStaffRepo(db),
		shiftRepo:  repository.NewShiftRepo(db),
		salaryRepo: repository.NewSalaryRepo(db),
		manager:    Actor{UserID: uuid.New(), Email: "manager@crudefi.local", Role: permission.RoleManager},
	}
	_, err := env.workRoles.SeedDefaults(model.DefaultWorkRoles)
	require.NoError(t, err)

	env.auth = NewAuthService(env.users, jwt.NewManager("test-secret", time.Hour, "crudefi"))
	env.shifts = NewShiftService(env.shiftRepo, env.staffRepo, env.workRoles, env.salaryRepo, nil)
	env.salary = NewSalaryService(env.salaryRepo, env.shiftRepo, env.workRoles, nil)
	return env
}

func (e *testEnv) addStaff(t *testing.T, roleCode string, active bool) *model.Staff {
	t.Helper()
	role, err := e.workRoles.FindByCode(roleCode)
	require.NoError(t, err)
	staff := &model.Staff{FullName: "Ama Mensah", WorkRoleID: role.ID, IsActive: true}
	require.NoError(t, e.staffRepo.Create(staff))
	if !active {
		staff.IsActive = false
		require.NoError(t, e.staffRepo.Update(staff))
	}
	return staff
}

func at(hour, minute int) *time.Time {
	t := time.Date(2024, 5, 6, hour, minute, 0, 0, time.UTC)
	return &t
}

func requireKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), "error: %v", err)
}

func TestOpenShiftDefaultsToStaffWorkRole(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "press_operator", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(9, 0)}, env.manager)
	require.NoError(t, err)

	assert.Equal(t, model.ShiftOpen, shift.Status)
	assert.Equal(t, "press_operator", shift.WorkRole)
	assert.Nil(t, shift.LogoutTime)
	assert.Equal(t, env.manager.AuditName(), shift.OpenedBy)
}

func TestOpenShiftRejections(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "sorter", true)
	inactive := env.addStaff(t, "sorter", false)

	_, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(8, 0)}, env.manager)
	require.NoError(t, err)

	_, err = env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(9, 0)}, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrShiftAlreadyOpen)

	_, err = env.shifts.OpenShift(&OpenShiftRequest{StaffID: inactive.ID}, env.manager)
	requireKind(t, err, apperror.KindValidation)

	_, err = env.shifts.OpenShift(&OpenShiftRequest{StaffID: uuid.New()}, env.manager)
	requireKind(t, err, apperror.KindNotFound)

	_, err = env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, WorkRole: "astronaut"}, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrWorkRoleNotFound)

	_, err = env.shifts.OpenShift(&OpenShiftRequest{}, env.manager)
	requireKind(t, err, apperror.KindValidation)
}

func TestCloseShiftRequiresReasonBelowFullDay(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "press_operator", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(9, 0)}, env.manager)
	require.NoError(t, err)

	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(19, 0)}, env.manager)
	requireKind(t, err, apperror.KindValidation)

	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(19, 0), DeductionReason: "   "}, env.manager)
	requireKind(t, err, apperror.KindValidation)

	closed, err := env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(19, 0), DeductionReason: "left early"}, env.manager)
	require.NoError(t, err)
	assert.Equal(t, model.ShiftClosed, closed.Status)
	require.NotNil(t, closed.ActualHours)
	assert.Equal(t, 9.0, *closed.ActualHours)
	assert.Equal(t, "left early", closed.DeductionReason)

	// press_operator earns 2000 a day, i.e. 200 an hour.
	record, err := env.salaryRepo.FindByShiftID(nil, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, record.Hours)
	assert.Equal(t, 200.0, record.HourlyRate)
	assert.Equal(t, 1800.0, record.Amount)
	assert.Equal(t, model.PaymentPending, record.PaymentStatus)
}

func TestCloseShiftCapsAndIsFinal(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "supervisor", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(9, 0)}, env.manager)
	require.NoError(t, err)

	closed, err := env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(20, 0)}, env.manager)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *closed.ActualHours)

	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(21, 0)}, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrShiftAlreadyClosed)

	records, err := env.salary.GetSalaries(model.SalaryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	// supervisor has an explicit hourly rate of 320.
	assert.Equal(t, 3200.0, records[0].Amount)

	for i := 0; i < 3; i++ {
		got, err := env.shifts.GetShiftByID(shift.ID, env.manager)
		require.NoError(t, err)
		assert.Equal(t, 10.0, *got.ActualHours)
	}

	// The staff member can start a new shift once the old one is closed.
	_, err = env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(21, 0)}, env.manager)
	assert.NoError(t, err)
}

func TestCloseShiftShortAndNegative(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "driver", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(9, 0)}, env.manager)
	require.NoError(t, err)

	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(8, 0), DeductionReason: "x"}, env.manager)
	requireKind(t, err, apperror.KindValidation)

	closed, err := env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(9, 30), DeductionReason: "sent home"}, env.manager)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *closed.ActualHours)

	record, err := env.salaryRepo.FindByShiftID(nil, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, record.Amount)
}

func TestStaffSeesOnlyOwnShifts(t *testing.T) {
	env := newEnv(t)

	user := &model.User{Email: "ama@crudefi.local", FullName: "Ama", Role: permission.RoleStaff, IsActive: true}
	require.NoError(t, user.SetPassword("secret1"))
	require.NoError(t, env.users.Create(user))

	mine := env.addStaff(t, "sorter", true)
	mine.UserID = &user.ID
	require.NoError(t, env.staffRepo.Update(mine))
	other := env.addStaff(t, "sorter", true)

	own, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: mine.ID, LoginTime: at(7, 0)}, env.manager)
	require.NoError(t, err)
	foreign, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: other.ID, LoginTime: at(7, 0)}, env.manager)
	require.NoError(t, err)

	staffActor := Actor{UserID: user.ID, Email: user.Email, Role: permission.RoleStaff}

	list, err := env.shifts.GetShifts(model.ShiftFilter{}, staffActor)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, own.ID, list[0].ID)

	_, err = env.shifts.GetShiftByID(foreign.ID, staffActor)
	requireKind(t, err, apperror.KindForbidden)

	_, err = env.shifts.GetShiftsByStaff(other.ID, staffActor)
	requireKind(t, err, apperror.KindForbidden)

	all, err := env.shifts.GetShifts(model.ShiftFilter{}, env.manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSalaryPaymentIsOneWay(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "press_operator", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(6, 0)}, env.manager)
	require.NoError(t, err)

	_, err = env.salary.CreateForShift(&CreateSalaryRequest{ShiftID: shift.ID}, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrShiftStillOpen)

	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(17, 0)}, env.manager)
	require.NoError(t, err)

	_, err = env.salary.CreateForShift(&CreateSalaryRequest{ShiftID: shift.ID}, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrSalaryExists)

	record, err := env.salaryRepo.FindByShiftID(nil, shift.ID)
	require.NoError(t, err)

	paid, err := env.salary.MarkPaid(record.ID, env.manager)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, env.manager.AuditName(), paid.PaidBy)
	assert.Equal(t, 2000.0, paid.Amount)

	_, err = env.salary.MarkPaid(record.ID, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrSalaryAlreadyPaid)

	err = env.salary.DeleteSalary(record.ID, env.manager)
	requireKind(t, err, apperror.KindValidation)

	summary, err := env.salary.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.PaidCount)
	assert.Equal(t, 2000.0, summary.PaidAmount)

	_, err = env.salary.MarkPaid(uuid.New(), env.manager)
	requireKind(t, err, apperror.KindNotFound)
}

func TestSalaryRederivedAfterPendingDelete(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "sorter", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(8, 0)}, env.manager)
	require.NoError(t, err)
	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(19, 0)}, env.manager)
	require.NoError(t, err)

	record, err := env.salaryRepo.FindByShiftID(nil, shift.ID)
	require.NoError(t, err)
	require.NoError(t, env.salary.DeleteSalary(record.ID, env.manager))

	again, err := env.salary.CreateForShift(&CreateSalaryRequest{ShiftID: shift.ID}, env.manager)
	require.NoError(t, err)
	assert.Equal(t, record.Amount, again.Amount)
	assert.NotEqual(t, record.ID, again.ID)
}

func TestDeleteShiftTakesPendingSalary(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "sorter", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(8, 0)}, env.manager)
	require.NoError(t, err)
	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(19, 0)}, env.manager)
	require.NoError(t, err)

	require.NoError(t, env.shifts.DeleteShift(shift.ID, env.manager))

	_, err = env.shifts.GetShiftByID(shift.ID, env.manager)
	requireKind(t, err, apperror.KindNotFound)
	records, err := env.salary.GetSalaries(model.SalaryFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDeleteShiftWithPaidSalaryRejected(t *testing.T) {
	env := newEnv(t)
	staff := env.addStaff(t, "sorter", true)

	shift, err := env.shifts.OpenShift(&OpenShiftRequest{StaffID: staff.ID, LoginTime: at(8, 0)}, env.manager)
	require.NoError(t, err)
	_, err = env.shifts.CloseShift(shift.ID, &CloseShiftRequest{LogoutTime: at(19, 0)}, env.manager)
	require.NoError(t, err)
	record, err := env.salaryRepo.FindByShiftID(nil, shift.ID)
	require.NoError(t, err)
	_, err = env.salary.MarkPaid(record.ID, env.manager)
	require.NoError(t, err)

	err = env.shifts.DeleteShift(shift.ID, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrShiftSalaryPaid)

	kept, err := env.shifts.GetShiftByID(shift.ID, env.manager)
	require.NoError(t, err)
	assert.Equal(t, model.ShiftClosed, kept.Status)
}

func TestStaffServiceKeepsExplicitInactive(t *testing.T) {
	env := newEnv(t)
	role, err := env.workRoles.FindByCode("driver")
	require.NoError(t, err)
	svc := NewStaffService(env.staffRepo, env.workRoles, env.users)

	fresh := svc.New()
	assert.True(t, fresh.IsActive)

	inactive := svc.New()
	require.NoError(t, json.Unmarshal([]byte(`{"full_name": "Abena Owusu", "work_role_id": "`+role.ID.String()+`", "is_active": false}`), inactive))
	created, err := svc.Create(inactive, env.manager)
	require.NoError(t, err)
	assert.False(t, created.IsActive)

	_, err = env.shifts.OpenShift(&OpenShiftRequest{StaffID: created.ID}, env.manager)
	requireKind(t, err, apperror.KindValidation)
	assert.ErrorIs(t, err, ErrStaffInactive)

	active := svc.New()
	require.NoError(t, json.Unmarshal([]byte(`{"full_name": "Kwame Mensah", "work_role_id": "`+role.ID.String()+`"}`), active))
	created, err = svc.Create(active, env.manager)
	require.NoError(t, err)
	assert.True(t, created.IsActive)
}

func TestCreateIgnoresNestedRecords(t *testing.T) {
	db := testutil.NewDB(t)
	suppliers := repository.NewCrudRepo[model.Supplier](db, "name ASC")
	fruits := repository.NewCrudRepo[model.Fruit](db, "name ASC")
	deliveries := repository.NewCrudRepo[model.FruitDelivery](db, "delivery_date DESC", "Supplier", "Fruit")
	actor := Actor{UserID: uuid.New(), Email: "clerk@crudefi.local", Role: permission.RoleStaff}

	supplier, err := NewSupplierService(suppliers).Create(&model.Supplier{Name: "Agro Coop"}, actor)
	require.NoError(t, err)
	fruit, err := NewFruitService(fruits).Create(&model.Fruit{Name: "Palm", DefaultPricePerKg: 85}, actor)
	require.NoError(t, err)

	d, err := NewDeliveryService(deliveries, suppliers, fruits, nil).Create(&model.FruitDelivery{
		SupplierID: supplier.ID,
		Supplier:   &model.Supplier{Name: "Side Door Farms"},
		FruitID:    fruit.ID,
		Fruit:      &model.Fruit{Name: "Coconut"},
		WeightKg:   10,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Agro Coop", d.Supplier.Name)

	allSuppliers, err := suppliers.FindAll()
	require.NoError(t, err)
	assert.Len(t, allSuppliers, 1)
	allFruits, err := fruits.FindAll()
	require.NoError(t, err)
	assert.Len(t, allFruits, 1)
}

func TestLoginRotatesSession(t *testing.T) {
	env := newEnv(t)

	user, err := env.auth.Register(&RegisterRequest{Email: "Viewer@Crudefi.local", Password: "secret1", FullName: "Vi"})
	require.NoError(t, err)
	assert.Equal(t, permission.RoleViewer, user.Role)
	assert.Equal(t, "viewer@crudefi.local", user.Email)

	_, err = env.auth.Register(&RegisterRequest{Email: "viewer@crudefi.local", Password: "secret1", FullName: "Vi"})
	requireKind(t, err, apperror.KindValidation)

	_, err = env.auth.Login("viewer@crudefi.local", "wrong")
	requireKind(t, err, apperror.KindUnauthenticated)

	first, err := env.auth.Login("viewer@crudefi.local", "secret1")
	require.NoError(t, err)
	authed, err := env.auth.Authenticate(first.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	second, err := env.auth.Login("viewer@crudefi.local", "secret1")
	require.NoError(t, err)

	_, err = env.auth.Authenticate(first.Token)
	requireKind(t, err, apperror.KindUnauthenticated)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	_, err = env.auth.Authenticate(second.Token)
	assert.NoError(t, err)

	_, err = env.auth.Authenticate("not-a-token")
	requireKind(t, err, apperror.KindUnauthenticated)
}

func TestUserRoleChangeRevokesSession(t *testing.T) {
	env := newEnv(t)
	users := NewUserService(env.users)
	admin := Actor{UserID: uuid.New(), Email: "admin@crudefi.local", Role: permission.RoleAdmin}

	created, err := users.CreateUser(&CreateUserRequest{
		Email: "ops@crudefi.local", Password: "secret1", FullName: "Ops", Role: "staff",
	}, admin)
	require.NoError(t, err)

	_, err = users.CreateUser(&CreateUserRequest{
		Email: "x@crudefi.local", Password: "secret1", FullName: "X", Role: "overlord",
	}, admin)
	requireKind(t, err, apperror.KindValidation)

	login, err := env.auth.Login("ops@crudefi.local", "secret1")
	require.NoError(t, err)

	role := "manager"
	updated, err := users.UpdateUser(created.ID, &UpdateUserRequest{Role: &role}, admin)
	require.NoError(t, err)
	assert.Equal(t, permission.RoleManager, updated.Role)

	_, err = env.auth.Authenticate(login.Token)
	requireKind(t, err, apperror.KindUnauthenticated)

	inactive := false
	_, err = users.UpdateUser(admin.UserID, &UpdateUserRequest{IsActive: &inactive}, admin)
	requireKind(t, err, apperror.KindNotFound)

	requireKind(t, users.DeleteUser(admin.UserID, admin), apperror.KindValidation)
	require.NoError(t, users.DeleteUser(created.ID, admin))

	_, err = users.GetUserByID(created.ID)
	requireKind(t, err, apperror.KindNotFound)
}

func TestDeliveryServiceDefaultsAndTotals(t *testing.T) {
	db := testutil.NewDB(t)
	suppliers := repository.NewCrudRepo[model.Supplier](db, "name ASC")
	fruits := repository.NewCrudRepo[model.Fruit](db, "name ASC")
	deliveries := repository.NewCrudRepo[model.FruitDelivery](db, "delivery_date DESC", "Supplier", "Fruit")
	actor := Actor{UserID: uuid.New(), Email: "clerk@crudefi.local", FullName: "Clerk", Role: permission.RoleStaff}

	supplier, err := NewSupplierService(suppliers).Create(&model.Supplier{Name: "Agro Coop"}, actor)
	require.NoError(t, err)
	fruit, err := NewFruitService(fruits).Create(&model.Fruit{Name: " Palm ", DefaultPricePerKg: 85}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Palm", fruit.Name)

	svc := NewDeliveryService(deliveries, suppliers, fruits, nil)

	d, err := svc.Create(&model.FruitDelivery{SupplierID: supplier.ID, FruitID: fruit.ID, WeightKg: 500}, actor)
	require.NoError(t, err)
	assert.Equal(t, 85.0, d.PricePerKg)
	assert.Equal(t, 42500.0, d.TotalCost)
	assert.Equal(t, "Clerk", d.ReceivedBy)
	assert.Equal(t, actor.AuditName(), d.CreatedBy)
	require.NotNil(t, d.Supplier)
	assert.Equal(t, "Agro Coop", d.Supplier.Name)

	got, err := svc.Get(d.ID)
	require.NoError(t, err)
	assert.Equal(t, 42500.0, got.TotalCost)

	updated, err := svc.Update(d.ID, func(item *model.FruitDelivery) error {
		return json.Unmarshal([]byte(`{"weight_kg": 250.5, "price_per_kg": 80, "id": "00000000-0000-0000-0000-000000000000"}`), item)
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, d.ID, updated.ID)
	assert.Equal(t, 20040.0, updated.TotalCost)
	assert.Equal(t, actor.AuditName(), updated.CreatedBy)

	_, err = svc.Create(&model.FruitDelivery{SupplierID: uuid.New(), FruitID: fruit.ID, WeightKg: 10}, actor)
	requireKind(t, err, apperror.KindValidation)

	_, err = svc.Create(&model.FruitDelivery{SupplierID: supplier.ID, FruitID: fruit.ID, WeightKg: 0}, actor)
	requireKind(t, err, apperror.KindValidation)

	_, err = NewFruitService(fruits).Create(&model.Fruit{Name: "Palm"}, actor)
	requireKind(t, err, apperror.KindValidation)

	require.NoError(t, svc.Delete(d.ID, actor))
	_, err = svc.Get(d.ID)
	requireKind(t, err, apperror.KindNotFound)
}

func TestAssetScheduleAndBookValue(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAssetService(repository.NewCrudRepo[model.Asset](db, "name ASC"))
	actor := Actor{UserID: uuid.New(), Email: "admin@crudefi.local", Role: permission.RoleAdmin}

	asset, err := svc.Create(&model.Asset{
		Name:            "Screw press",
		Cost:            100000,
		PurchaseDate:    time.Now().AddDate(-2, 0, -10),
		UsefulLifeYears: 5,
	}, actor)
	require.NoError(t, err)
	require.NotNil(t, asset.BookValue)
	assert.Equal(t, 60000.0, *asset.BookValue)

	sched, err := svc.Schedule(asset.ID)
	require.NoError(t, err)
	require.Len(t, sched.Schedule, 5)
	for _, y := range sched.Schedule {
		assert.Equal(t, 20000.0, y.Depreciation)
	}
	assert.Equal(t, 0.0, sched.Schedule[4].ClosingValue)

	_, err = svc.Create(&model.Asset{Name: "Bad", Cost: 10, PurchaseDate: time.Now(), UsefulLifeYears: 0}, actor)
	requireKind(t, err, apperror.KindValidation)
}
