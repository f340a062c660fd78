package service

import (
	"strings"

	"github.com/google/uuid"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/repository"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(userID uuid.UUID, actor Actor) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,notblank"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func parseRole(name string) (permission.Role, error) {
	role, err := permission.ParseRole(name)
	if err != nil {
		return role, apperror.Validation("role must be one of admin, manager, staff, viewer")
	}
	return role, nil
}

func (s *userService) CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, apperror.Wrap(apperror.KindValidation, ErrEmailExists)
	}

	user := &model.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: req.FullName,
		Role:     role,
		IsActive: true,
	}
	user.Stamp(actor.AuditName())
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, storeError(err, ErrUserNotFound.Error())
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound.Error())
	}

	// Role changes, deactivation and password resets end the current session.
	revoke := false

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if existing, _ := s.userRepo.FindByEmail(email); existing != nil {
				return nil, apperror.Wrap(apperror.KindValidation, ErrEmailExists)
			}
			user.Email = email
		}
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		role, err := parseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		if role != user.Role {
			if user.ID == actor.UserID {
				return nil, apperror.Validation("you cannot change your own role")
			}
			user.Role = role
			revoke = true
		}
	}
	if req.IsActive != nil && *req.IsActive != user.IsActive {
		if !*req.IsActive && user.ID == actor.UserID {
			return nil, apperror.Validation("you cannot deactivate your own account")
		}
		user.IsActive = *req.IsActive
		revoke = revoke || !user.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, apperror.Internal(err)
		}
		revoke = true
	}
	if revoke {
		user.TokenVersion = uuid.New().String()
	}
	user.Stamp(actor.AuditName())

	if err := s.userRepo.Update(user); err != nil {
		return nil, storeError(err, ErrUserNotFound.Error())
	}
	return user, nil
}

func (s *userService) DeleteUser(userID uuid.UUID, actor Actor) error {
	if userID == actor.UserID {
		return apperror.Validation("you cannot delete your own account")
	}
	return storeError(s.userRepo.Delete(userID, actor.AuditName()), ErrUserNotFound.Error())
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	responses := make([]model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound.Error())
	}
	resp := user.ToResponse()
	return &resp, nil
}
