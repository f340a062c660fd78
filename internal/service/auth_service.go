package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"crudefi-api/internal/apperror"
	"crudefi-api/internal/model"
	"crudefi-api/internal/permission"
	"crudefi-api/internal/repository"
	"crudefi-api/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
	ErrEmailExists        = errors.New("email already exists")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	Register(req *RegisterRequest) (*model.User, error)
	ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error
	// Authenticate verifies a bearer token against the signing key and the
	// user's current session.
	Authenticate(tokenString string) (*model.User, error)
	// AuthenticateEmail loads an active user without a token.
	AuthenticateEmail(email string) (*model.User, error)
	Me(userID uuid.UUID) (*model.User, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresIn int64              `json:"expires_in"`
	User      model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	if err := validate(&LoginRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrInvalidCredentials)
	}
	if !user.CheckPassword(password) {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrInvalidCredentials)
	}
	if !user.IsActive {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrUserInactive)
	}

	// A new version invalidates every token issued before this login.
	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, version); err != nil {
		return nil, apperror.Internal(err)
	}
	now := s.now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, apperror.Internal(err)
	}
	user.TokenVersion = version
	user.LastLoginAt = &now

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, user.Role.String(), version)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.ExpiresIn().Seconds()),
		User:      user.ToResponse(),
	}, nil
}

func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, apperror.Wrap(apperror.KindValidation, ErrEmailExists)
	}

	user := &model.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: req.FullName,
		Role:     permission.RoleViewer,
		IsActive: true,
	}
	user.CreatedBy = user.Email
	user.UpdatedBy = user.Email
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, storeError(err, ErrUserNotFound.Error())
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return storeError(err, ErrUserNotFound.Error())
	}
	if !user.CheckPassword(req.OldPassword) {
		return apperror.Wrap(apperror.KindValidation, ErrWrongPassword)
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperror.Internal(err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *authService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, err)
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrUserInactive)
	}
	if user.TokenVersion == "" || user.TokenVersion != claims.TokenVersion {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrSessionReplaced)
	}
	if !user.Role.Valid() {
		return nil, apperror.Unauthenticated("user has no valid role")
	}
	return user, nil
}

func (s *authService) AuthenticateEmail(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrUserNotFound)
	}
	if !user.IsActive {
		return nil, apperror.Wrap(apperror.KindUnauthenticated, ErrUserInactive)
	}
	return user, nil
}

func (s *authService) Me(userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, storeError(err, ErrUserNotFound.Error())
	}
	return user, nil
}
