package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestJWT(t *testing.T, clk *fixedClock) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "coursebell",
		Audiences: []string{"coursebell-admin"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      staticID("tok-1"),
	})
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}
	return j
}

func TestSymmetric(t *testing.T) {

	t.Run("RoundTrip", func(t *testing.T) {

		// Arrange
		clk := &fixedClock{t: time.Now()}
		j := newTestJWT(t, clk)

		// Act
		tok, err := j.Generate(42, "admin@example.com", "admin")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		clm, err := j.Verify(tok)

		// Assert
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if clm.UserID != 42 || clm.UserEmail != "admin@example.com" || clm.Role != "admin" || clm.ID != "tok-1" {
			t.Fatalf("unexpected claims %+v", clm)
		}
	})

	t.Run("Expired", func(t *testing.T) {

		// Arrange
		clk := &fixedClock{t: time.Now()}
		j := newTestJWT(t, clk)
		tok, _ := j.Generate(1, "a@x.com", "admin")
		clk.t = clk.t.Add(2 * time.Hour)

		// Act
		_, err := j.Verify(tok)

		// Assert
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("got %v, want ErrTokenExpired", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {

		// Arrange
		j := newTestJWT(t, &fixedClock{t: time.Now()})

		// Act
		_, err := j.Verify("not-a-token")

		// Assert
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("got %v, want ErrInvalidToken", err)
		}
	})

	t.Run("ShortSecret", func(t *testing.T) {

		// Act
		_, err := NewHS512(Config{Secret: []byte("short")})

		// Assert
		if !errors.Is(err, ErrSigningKeyTooShort) {
			t.Fatalf("got %v, want ErrSigningKeyTooShort", err)
		}
	})
}

func TestContextAndBearer(t *testing.T) {

	t.Run("SetGetAuth", func(t *testing.T) {

		// Arrange
		ctx := context.Background()

		// Act
		empty := GetAuth(ctx)
		got := GetAuth(SetAuth(ctx, Claims{UserID: 7}))

		// Assert
		if empty != nil {
			t.Fatalf("expected nil claims on empty context")
		}
		if got == nil || got.UserID != 7 {
			t.Fatalf("unexpected claims %+v", got)
		}
	})

	t.Run("BearerToken", func(t *testing.T) {

		// Assert
		if BearerToken("Bearer abc") != "abc" || BearerToken("bearer  abc ") != "abc" || BearerToken("abc") != "abc" {
			t.Fatalf("bearer parsing failed")
		}
	})
}
