package model

// WorkRole is the job a staff member performs on a shift, with its pay rates.
// It is unrelated to the permission role of a login user.
type WorkRole struct {
	BaseModel
	Code          string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required,max=50"`
	Name          string  `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Description   string  `gorm:"type:text" json:"description"`
	BaseDailyRate float64 `gorm:"not null;default:0" json:"base_daily_rate" validate:"gte=0"`
	HourlyRate    float64 `gorm:"not null;default:0" json:"hourly_rate" validate:"gte=0"`
}

func (WorkRole) TableName() string {
	return "work_roles"
}

// DefaultWorkRoles are seeded on first start.
var DefaultWorkRoles = []WorkRole{
	{Code: "sorter", Name: "Fruit Sorter", Description: "Receives and grades incoming fruit", BaseDailyRate: 1500},
	{Code: "press_operator", Name: "Press Operator", Description: "Runs the extraction press", BaseDailyRate: 2000},
	{Code: "boiler_attendant", Name: "Boiler Attendant", Description: "Keeps the sterilizer and boiler running", BaseDailyRate: 1800},
	{Code: "supervisor", Name: "Shift Supervisor", Description: "Supervises the floor", BaseDailyRate: 3000, HourlyRate: 320},
	{Code: "driver", Name: "Driver", Description: "Collects fruit from suppliers", BaseDailyRate: 1700},
}
