package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudefi-api/internal/depreciation"
	"crudefi-api/internal/permission"
)

func TestDeliveryTotal(t *testing.T) {
	d := &FruitDelivery{WeightKg: 500, PricePerKg: 85}
	require.NoError(t, d.BeforeSave(nil))
	assert.Equal(t, 42500.0, d.TotalCost)

	d.WeightKg = 250.5
	d.PricePerKg = 80
	d.ComputeTotal()
	assert.Equal(t, 20040.0, d.TotalCost)
}

func TestExtractionYield(t *testing.T) {
	e := &OilExtraction{InputWeightKg: 1000, OilOutputLiters: 215}
	require.NoError(t, e.BeforeSave(nil))
	assert.Equal(t, 21.5, e.YieldPercent)

	e.InputWeightKg = 0
	e.ComputeYield()
	assert.Equal(t, 0.0, e.YieldPercent)
}

func TestAssetBookValue(t *testing.T) {
	a := &Asset{
		Cost:            100000,
		PurchaseDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		UsefulLifeYears: 5,
	}

	a.FillBookValue(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, a.BookValue)
	assert.Equal(t, 60000.0, *a.BookValue)
	assert.Equal(t, depreciation.StraightLine, a.DepreciationInput().Method)

	a.UsefulLifeYears = 0
	a.FillBookValue(time.Now())
	assert.Nil(t, a.BookValue)
}

func TestUserPassword(t *testing.T) {
	u := &User{Email: "ops@example.com", Role: permission.RoleManager}
	require.NoError(t, u.SetPassword("palm-oil-42"))

	assert.NotEqual(t, "palm-oil-42", u.Password)
	assert.True(t, u.CheckPassword("palm-oil-42"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.Equal(t, permission.RoleManager, u.ToResponse().Role)
}

func TestBaseModelStamp(t *testing.T) {
	var b BaseModel
	b.Stamp("alice")
	assert.Equal(t, "alice", b.CreatedBy)
	assert.Equal(t, "alice", b.UpdatedBy)

	b.ID = uuid.New()
	b.Stamp("bob")
	assert.Equal(t, "alice", b.CreatedBy)
	assert.Equal(t, "bob", b.UpdatedBy)

	require.NoError(t, b.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, b.ID)
}

func TestShiftResponse(t *testing.T) {
	hours := 9.0
	s := &Shift{
		StaffID:     uuid.New(),
		Staff:       &Staff{FullName: "Ama Mensah"},
		WorkRole:    "press_operator",
		Status:      ShiftClosed,
		ActualHours: &hours,
	}

	resp := s.ToResponse()
	assert.Equal(t, "Ama Mensah", resp.StaffName)
	assert.Equal(t, 9.0, *resp.ActualHours)
	assert.False(t, s.IsOpen())
}
