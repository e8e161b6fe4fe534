package jwt

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestSigner(t *testing.T, lifetime time.Duration) (*Signer, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	s, err := NewSigner("test-secret", lifetime, WithClock(clk.now))
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return s, clk
}

func sampleIdentity() domain.Identity {
	return domain.Identity{
		UserID:    7,
		Email:     "a@x.com",
		Name:      "Alice",
		Username:  "user123456789",
		Role:      domain.RoleUser,
		CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func reasonOf(t *testing.T, err error) domain.TokenFailure {
	t.Helper()
	var te *domain.TokenError
	if !errors.As(err, &te) {
		t.Fatalf("expected *domain.TokenError, got %T (%v)", err, err)
	}
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("token error must unwrap to ErrUnauthenticated")
	}
	return te.Reason
}

func TestSigner_RoundTrip(t *testing.T) {
	s, clk := newTestSigner(t, 15*time.Minute)

	issued, err := s.Sign(sampleIdentity())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if want := clk.t.Add(15 * time.Minute); !issued.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", issued.ExpiresAt, want)
	}
	if parts := strings.Split(issued.Token, "."); len(parts) != 3 {
		t.Fatalf("token is not header.payload.signature: %q", issued.Token)
	}

	got, err := s.Verify(issued.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	want := sampleIdentity()
	if got.UserID != want.UserID || got.Email != want.Email || got.Role != want.Role || got.Username != want.Username {
		t.Fatalf("identity mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("createdAt mismatch: %v", got.CreatedAt)
	}
}

func TestSigner_ValidityWindow(t *testing.T) {
	const lifetime = 3 * 24 * time.Hour
	s, clk := newTestSigner(t, lifetime)
	start := clk.t

	issued, err := s.Sign(sampleIdentity())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	for _, offset := range []time.Duration{0, time.Second, lifetime / 2, lifetime - time.Second, lifetime - time.Millisecond} {
		clk.t = start.Add(offset)
		if _, err := s.Verify(issued.Token); err != nil {
			t.Fatalf("token should verify at T+%v: %v", offset, err)
		}
	}

	for _, offset := range []time.Duration{lifetime, lifetime + time.Second, 2 * lifetime} {
		clk.t = start.Add(offset)
		_, err := s.Verify(issued.Token)
		if err == nil {
			t.Fatalf("token should fail at T+%v", offset)
		}
		if r := reasonOf(t, err); r != domain.TokenExpired {
			t.Fatalf("reason at T+%v = %s, want expired", offset, r)
		}
	}
}

func TestSigner_ValidityWindow_SubSecondClock(t *testing.T) {
	const lifetime = 10 * time.Second
	s, clk := newTestSigner(t, lifetime)
	clk.t = time.Date(2026, 1, 2, 3, 4, 5, 900_000_000, time.UTC)
	start := clk.t

	issued, err := s.Sign(sampleIdentity())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if want := start.Add(lifetime); !issued.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", issued.ExpiresAt, want)
	}

	for _, offset := range []time.Duration{0, 9500 * time.Millisecond, lifetime - time.Millisecond, lifetime - time.Nanosecond} {
		clk.t = start.Add(offset)
		if _, err := s.Verify(issued.Token); err != nil {
			t.Fatalf("token should verify at T+%v: %v", offset, err)
		}
	}

	// Between the exact expiry and the whole second after it.
	for _, offset := range []time.Duration{lifetime, lifetime + 50*time.Millisecond, lifetime + time.Second} {
		clk.t = start.Add(offset)
		_, err := s.Verify(issued.Token)
		if err == nil {
			t.Fatalf("token should fail at T+%v", offset)
		}
		if r := reasonOf(t, err); r != domain.TokenExpired {
			t.Fatalf("reason at T+%v = %s, want expired", offset, r)
		}
	}
}

func TestSigner_RequiresExactExpiry(t *testing.T) {
	s, clk := newTestSigner(t, time.Hour)
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"userId": 1,
		"role":   "admin",
		"exp":    clk.t.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = s.Verify(signed)
	if err == nil {
		t.Fatal("token without expNano must not verify")
	}
	if r := reasonOf(t, err); r != domain.TokenMalformed {
		t.Fatalf("reason = %s, want malformed", r)
	}
}

func TestSigner_TamperedSignature(t *testing.T) {
	s, _ := newTestSigner(t, time.Hour)
	issued, err := s.Sign(sampleIdentity())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	parts := strings.Split(issued.Token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	for i := range sig {
		tampered := append([]byte(nil), sig...)
		tampered[i] ^= 0x01
		token := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		_, err := s.Verify(token)
		if err == nil {
			t.Fatalf("altered signature byte %d still verified", i)
		}
		if r := reasonOf(t, err); r != domain.TokenBadSignature {
			t.Fatalf("reason for byte %d = %s, want bad_signature", i, r)
		}
	}
}

func TestSigner_WrongSecret(t *testing.T) {
	s, clk := newTestSigner(t, time.Hour)
	other, err := NewSigner("other-secret", time.Hour, WithClock(clk.now))
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	issued, err := other.Sign(sampleIdentity())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := s.Verify(issued.Token); reasonOf(t, err) != domain.TokenBadSignature {
		t.Fatalf("expected bad_signature, got %v", err)
	}
}

func TestSigner_RejectsOtherAlgorithms(t *testing.T) {
	s, clk := newTestSigner(t, time.Hour)

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.MapClaims{
		"userId": 1,
		"role":   "admin",
		"exp":    clk.t.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(signed); err == nil {
		t.Fatal("HS512 token must not verify")
	}

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
		"role": "admin",
		"exp":  clk.t.Add(time.Hour).Unix(),
	})
	unsigned, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := s.Verify(unsigned); err == nil {
		t.Fatal("unsigned token must not verify")
	}
}

func TestSigner_Malformed(t *testing.T) {
	s, _ := newTestSigner(t, time.Hour)
	for _, raw := range []string{"", "abc", "a.b", "a.b.c"} {
		_, err := s.Verify(raw)
		if err == nil {
			t.Fatalf("%q should not verify", raw)
		}
		if r := reasonOf(t, err); r != domain.TokenMalformed {
			t.Fatalf("reason for %q = %s, want malformed", raw, r)
		}
	}
}

func TestSigner_RequiresExpiry(t *testing.T) {
	s, _ := newTestSigner(t, time.Hour)
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{"role": "admin"})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.Verify(signed); err == nil {
		t.Fatal("token without exp must not verify")
	}
}

func TestNewSigner_RequiresSecretAndLifetime(t *testing.T) {
	if _, err := NewSigner("", time.Hour); err == nil {
		t.Fatal("empty secret accepted")
	}
	if _, err := NewSigner("s", 0); err == nil {
		t.Fatal("zero lifetime accepted")
	}
}
