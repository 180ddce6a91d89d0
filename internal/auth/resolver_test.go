package auth

import (
	"context"
	"strconv"
	"testing"

	"github.com/ventaplus/commerce-service/internal/domain"
)

type stubUserFinder struct {
	byID    map[int64]*domain.User
	byEmail map[string]*domain.User
}

func newStubUserFinder(users ...*domain.User) *stubUserFinder {
	finder := &stubUserFinder{
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
	for _, user := range users {
		finder.byID[user.ID] = user
		finder.byEmail[user.Email] = user
	}
	return finder
}

func (f *stubUserFinder) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, ErrUserNotFound
}

func (f *stubUserFinder) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, ErrUserNotFound
}

func testUser(id int64, email string) *domain.User {
	role := "cliente"
	return &domain.User{ID: id, Email: email, RoleName: &role, IsActive: true}
}

func TestResolver_EmailSubject(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	alice := testUser(1, "alice@example.com")
	resolver := NewResolver(codec, newStubUserFinder(alice))

	token, _, err := codec.Encode(map[string]any{"sub": alice.Email})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	user, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.ID != alice.ID {
		t.Fatalf("resolved wrong user: %d", user.ID)
	}
}

func TestResolver_NumericSubject(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	bob := testUser(7, "bob@example.com")
	resolver := NewResolver(codec, newStubUserFinder(bob))

	token, _, err := codec.Encode(map[string]any{"sub": strconv.FormatInt(bob.ID, 10)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	user, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.ID != bob.ID {
		t.Fatalf("resolved wrong user: %d", user.ID)
	}
}

func TestResolver_UserIDClaimFallback(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	carol := testUser(3, "carol@example.com")
	resolver := NewResolver(codec, newStubUserFinder(carol))

	// sub matches nothing; the userId claim must still resolve.
	token, _, err := codec.Encode(map[string]any{
		"sub":    "ghost@example.com",
		"userId": carol.ID,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	user, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.ID != carol.ID {
		t.Fatalf("resolved wrong user: %d", user.ID)
	}
}

func TestResolver_EmailClaimFallback(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	dave := testUser(4, "dave@example.com")
	resolver := NewResolver(codec, newStubUserFinder(dave))

	token, _, err := codec.Encode(map[string]any{
		"sub":   "999",
		"email": dave.Email,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	user, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.ID != dave.ID {
		t.Fatalf("resolved wrong user: %d", user.ID)
	}
}

func TestResolver_BearerPrefixStripped(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	alice := testUser(1, "alice@example.com")
	resolver := NewResolver(codec, newStubUserFinder(alice))

	token, _, err := codec.Encode(map[string]any{"sub": alice.Email})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, prefix := range []string{"Bearer ", "bearer ", "BEARER "} {
		if _, err := resolver.Resolve(context.Background(), prefix+token); err != nil {
			t.Fatalf("Resolve with prefix %q failed: %v", prefix, err)
		}
	}
}

func TestResolver_UnknownUser(t *testing.T) {
	codec := NewTokenCodec("secret", 60)
	resolver := NewResolver(codec, newStubUserFinder())

	token, _, err := codec.Encode(map[string]any{"sub": "nobody@example.com"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := resolver.Resolve(context.Background(), token); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResolver_GarbageToken(t *testing.T) {
	resolver := NewResolver(NewTokenCodec("secret", 60), newStubUserFinder())
	if _, err := resolver.Resolve(context.Background(), "not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
