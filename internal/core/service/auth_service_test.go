package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *fakeHasher, *recordingPublisher) {
	t.Helper()
	repo := newStubUserRepo()
	hasher := &fakeHasher{}
	events := &recordingPublisher{}
	svc := NewAuthService(repo, hasher, newStubSigner(), events, nopLogger)

	if _, err := repo.Create(context.Background(), &domain.User{
		Email:        "a@x.com",
		PasswordHash: "hashed:Str0ng!Pass",
		Username:     "alice",
		Role:         domain.RoleUser,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return svc, repo, hasher, events
}

func TestAuthService_VerifyCredentials_IdenticalFailures(t *testing.T) {
	svc, _, hasher, _ := newTestAuthService(t)
	ctx := context.Background()

	_, wrongPass := svc.VerifyCredentials(ctx, "a@x.com", "nope")
	comparesAfterWrongPass := hasher.compares
	_, unknown := svc.VerifyCredentials(ctx, "ghost@x.com", "Str0ng!Pass")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) || !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected credential errors, got %v / %v", wrongPass, unknown)
	}
	if wrongPass != unknown {
		t.Fatalf("failures differ: %q vs %q", wrongPass, unknown)
	}
	if wrongPass.Error() != "Credentials are not valid." {
		t.Fatalf("unexpected message %q", wrongPass.Error())
	}
	if hasher.compares-comparesAfterWrongPass != 1 {
		t.Fatalf("unknown email should still run one password comparison")
	}
}

func TestAuthService_VerifyCredentials_EmptyInput(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	if _, err := svc.VerifyCredentials(context.Background(), "", ""); err != domain.ErrCredentials {
		t.Fatalf("expected ErrCredentials, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _, events := newTestAuthService(t)

	issued, user, err := svc.Login(context.Background(), "a@x.com", "Str0ng!Pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if issued.Token == "" || issued.ExpiresAt.IsZero() {
		t.Fatalf("expected token and expiry, got %+v", issued)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	id, err := svc.Authenticate(issued.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.Role != domain.RoleUser || id.UserID != user.ID {
		t.Fatalf("unexpected identity %+v", id)
	}

	if got := events.types(); len(got) != 1 || got[0] != domain.EventUserLoggedIn {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestAuthService_LoginFailureDoesNotPublish(t *testing.T) {
	svc, _, _, events := newTestAuthService(t)
	if _, _, err := svc.Login(context.Background(), "a@x.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected credentials error, got %v", err)
	}
	if len(events.types()) != 0 {
		t.Fatalf("failed login must not publish")
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)

	if _, err := svc.Authenticate(""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("missing token: expected unauthenticated, got %v", err)
	}
	if _, err := svc.Authenticate("forged"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("forged token: expected unauthenticated, got %v", err)
	}
}
