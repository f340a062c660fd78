package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crudefi-api/internal/permission"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string          `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string          `gorm:"type:varchar(255)" json:"full_name"`
	Role         permission.Role `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive     bool            `gorm:"not null" json:"is_active"`
	TokenVersion string          `gorm:"type:varchar(64);default:''" json:"-"` // For single session enforcement
	LastLoginAt  *time.Time      `json:"last_login_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Role        permission.Role `json:"role"`
	IsActive    bool            `json:"is_active"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
