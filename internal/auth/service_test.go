package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/quickplate/quickplate-backend/pkg/auth"
	"github.com/quickplate/quickplate-backend/pkg/config"
	"github.com/quickplate/quickplate-backend/pkg/db/models"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	pkgerrors "github.com/quickplate/quickplate-backend/pkg/errors"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestAuth(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "quickplate-test", ExpirationMinutes: 30}
	passwordCfg := config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	}
	svc, err := NewService(repo, jwtCfg, passwordCfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t, newStubUserRepo())

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email:    " Ana@Example.com ",
		Password: "correct-horse",
		FullName: "Ana Silva",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", registered.User.Email)
	}
	if registered.User.Role != enums.UserRoleCustomer {
		t.Fatalf("role = %s, want customer default", registered.User.Role)
	}
	if registered.Token == "" {
		t.Fatal("token missing")
	}

	loggedIn, err := svc.Login(context.Background(), "ana@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "quickplate-test", ExpirationMinutes: 30}
	claims, err := pkgauth.ParseAccessToken(jwtCfg, loggedIn.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != registered.User.ID {
		t.Fatalf("token user = %s, want %s", claims.UserID, registered.User.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t, newStubUserRepo())

	cases := []RegisterInput{
		{Email: "not-an-email", Password: "long-enough", FullName: "Ana"},
		{Email: "a@b.com", Password: "short", FullName: "Ana"},
		{Email: "a@b.com", Password: "long-enough", FullName: "  "},
		{Email: "a@b.com", Password: "long-enough", FullName: "Ana", Role: enums.UserRole("root")},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("input %+v: expected validation error, got %v", input, err)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t, newStubUserRepo())
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "correct-horse", FullName: "Ana",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), "a@b.com", "battery-staple")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t, newStubUserRepo())
	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
