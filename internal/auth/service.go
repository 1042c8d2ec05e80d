package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/quickplate/quickplate-backend/pkg/auth"
	"github.com/quickplate/quickplate-backend/pkg/config"
	"github.com/quickplate/quickplate-backend/pkg/db"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
	"github.com/quickplate/quickplate-backend/pkg/security"
)

const minPasswordLength = 8

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service exposes account registration and login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type service struct {
	repo        userRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds an auth service with the provided repository and config.
func NewService(repo userRepository, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, passwordCfg: passwordCfg, now: time.Now}, nil
}

// RegisterInput captures a new account request.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    *string
	Role     enums.UserRole
}

// UserDTO is the outward account shape.
type UserDTO struct {
	ID       uuid.UUID      `json:"id"`
	Email    string         `json:"email"`
	FullName string         `json:"full_name"`
	Phone    *string        `json:"phone,omitempty"`
	Role     enums.UserRole `json:"role"`
}

// AuthResult is a signed token plus the account it belongs to.
type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func userDTO(m *models.User) UserDTO {
	return UserDTO{
		ID:       m.ID,
		Email:    m.Email,
		FullName: m.FullName,
		Phone:    m.Phone,
		Role:     m.Role,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	role := input.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        input.Phone,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create user")
	}

	return s.issue(user)
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.issue(user)
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load user")
	}
	dto := userDTO(user)
	return &dto, nil
}

func (s *service) issue(user *models.User) (*AuthResult, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint token")
	}
	return &AuthResult{Token: token, User: userDTO(user)}, nil
}
