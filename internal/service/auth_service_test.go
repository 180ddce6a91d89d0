package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ventaplus/commerce-service/internal/auth"
	"github.com/ventaplus/commerce-service/internal/config"
	"github.com/ventaplus/commerce-service/internal/domain"
	"github.com/ventaplus/commerce-service/internal/events"
	"github.com/ventaplus/commerce-service/internal/repository"
)

type stubUserRepo struct {
	repository.UserRepository
	users  map[string]*domain.User
	nextID int64
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: map[string]*domain.User{}, nextID: 1}
	for _, user := range users {
		repo.users[user.Email] = user
		if user.ID >= repo.nextID {
			repo.nextID = user.ID + 1
		}
	}
	return repo
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := r.users[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.Email] = user
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *stubUserRepo) ListRoles(_ context.Context) ([]domain.Role, error) {
	return []domain.Role{
		{ID: 1, Name: "administrador"},
		{ID: 2, Name: "vendedor"},
		{ID: 3, Name: "cliente"},
	}, nil
}

type stubResetRepo struct {
	tokens map[string]string
}

func (r *stubResetRepo) Store(_ context.Context, token, email string, _ time.Duration) error {
	if r.tokens == nil {
		r.tokens = map[string]string{}
	}
	r.tokens[token] = email
	return nil
}

func (r *stubResetRepo) Consume(_ context.Context, token string) (string, error) {
	email, ok := r.tokens[token]
	if !ok {
		return "", repository.ErrResetTokenNotFound
	}
	delete(r.tokens, token)
	return email, nil
}

func newAuthTestService(users *stubUserRepo, resets *stubResetRepo) (*AuthService, *auth.TokenCodec) {
	codec := auth.NewTokenCodec("secret", 60)
	cfg := config.AuthConfig{BcryptCost: 4, PasswordResetTTLMinutes: 30}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		Codec:             codec,
		Dispatcher:        events.NewInMemoryDispatcher(),
		Logger:            zap.NewNop(),
	})
	return svc, codec
}

func seededUser(t *testing.T, id int64, email, password, role string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.User{ID: id, Name: "Test", Email: email, PasswordHash: hash, RoleName: &role, IsActive: true}
}

func TestLogin_IssuesRoleBearingToken(t *testing.T) {
	users := newStubUserRepo(seededUser(t, 1, "admin@example.com", "secret123", "Administrador"))
	svc, codec := newAuthTestService(users, &stubResetRepo{})

	user, token, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("unexpected user: %d", user.ID)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if claims["sub"] != "admin@example.com" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
	if claims["role"] != "administrador" {
		t.Fatalf("role claim should be the lowercased label, got %v", claims["role"])
	}
	if id, _ := claims["userId"].(float64); int64(id) != 1 {
		t.Fatalf("unexpected userId claim: %v", claims["userId"])
	}
}

func TestLogin_Failures(t *testing.T) {
	active := seededUser(t, 1, "user@example.com", "secret123", "cliente")
	disabled := seededUser(t, 2, "off@example.com", "secret123", "cliente")
	disabled.IsActive = false
	users := newStubUserRepo(active, disabled)
	svc, _ := newAuthTestService(users, &stubResetRepo{})

	if _, _, err := svc.Login(context.Background(), "user@example.com", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); err == nil {
		t.Fatalf("expected error for unknown email")
	}
	if _, _, err := svc.Login(context.Background(), "off@example.com", "secret123"); err == nil {
		t.Fatalf("expected error for disabled account")
	}
}

func TestRegister_DefaultsToClientRole(t *testing.T) {
	users := newStubUserRepo()
	svc, _ := newAuthTestService(users, &stubResetRepo{})

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token on registration")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if user.RoleID == nil || *user.RoleID != 3 {
		t.Fatalf("expected client role id 3, got %v", user.RoleID)
	}
	if user.PasswordHash == "secret123" {
		t.Fatalf("password stored unhashed")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newStubUserRepo(seededUser(t, 1, "taken@example.com", "x", "cliente"))
	svc, _ := newAuthTestService(users, &stubResetRepo{})

	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "secret123",
	}); err == nil {
		t.Fatalf("expected conflict for duplicate email")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	users := newStubUserRepo(seededUser(t, 1, "alice@example.com", "oldpass", "cliente"))
	resets := &stubResetRepo{}
	svc, _ := newAuthTestService(users, resets)

	token, err := svc.ForgotPassword(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a reset token")
	}

	if err := svc.ResetPassword(context.Background(), token, "newpass123"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "newpass123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "oldpass"); err == nil {
		t.Fatalf("old password should be rejected")
	}

	// Tokens are single use.
	if err := svc.ResetPassword(context.Background(), token, "again123"); err == nil {
		t.Fatalf("expected error for replayed token")
	}
}

func TestForgotPassword_UnknownEmailSilent(t *testing.T) {
	svc, _ := newAuthTestService(newStubUserRepo(), &stubResetRepo{})

	token, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if token != "" {
		t.Fatalf("no token should be issued for unknown email")
	}
}

func TestChangePassword(t *testing.T) {
	users := newStubUserRepo(seededUser(t, 1, "alice@example.com", "oldpass", "cliente"))
	svc, _ := newAuthTestService(users, &stubResetRepo{})

	if err := svc.ChangePassword(context.Background(), 1, "wrong", "newpass123"); err == nil {
		t.Fatalf("expected error for wrong current password")
	}
	if err := svc.ChangePassword(context.Background(), 1, "oldpass", "newpass123"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "newpass123"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
