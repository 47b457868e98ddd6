package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

type stubAuthRepo struct {
	byUsername map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{byUsername: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.byUsername[u.Username]; ok {
		return nil, domain.ErrUserExists
	}
	clone := *u
	clone.ID = uuid.NewString()
	r.byUsername[u.Username] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byUsername {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "amira", "s3cret", "amira@carthage.tn", "ROLE_AGENT_RECOUVREMENT")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleAgentRecouvrement {
		t.Errorf("role: want AGENT_RECOUVREMENT, got %q", user.Role)
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password must be hashed")
	}

	token, logged, err := svc.Login(ctx, "amira", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Username != "amira" || token == "" {
		t.Errorf("unexpected login result: %q %+v", token, logged)
	}
}

func TestAuthService_Register_UnknownAuthority(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "x", "pw", "", "ROLE_PIRATE"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "amira", "pw", "", "ROLE_AGENT_FINANCE"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "amira", "pw2", "", "ROLE_AGENT_FINANCE"); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("want ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "amira", "pw", "", "ROLE_CHEF_DEPARTEMENT_FINANCE"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Login(ctx, "amira", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "ghost", "pw"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_TokenClaims(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "amira", "pw", "", "ROLE_SUPER_ADMIN"); err != nil {
		t.Fatal(err)
	}
	token, user, err := svc.Login(ctx, "amira", "pw")
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token must verify with the signing secret: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["username"] != "amira" || claims["user_id"] != user.ID {
		t.Errorf("identity claims: %+v", claims)
	}
	if claims["authority"] != "ROLE_SUPER_ADMIN" {
		t.Errorf("authority claim: want ROLE_SUPER_ADMIN, got %v", claims["authority"])
	}
}
