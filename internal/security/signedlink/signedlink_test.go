package signedlink

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	c := New([]byte("test-secret"), DefaultMaxAge)

	tok := c.Sign("user@example.com")
	email, err := c.Verify(tok)
	if err != nil {
		t.Fatalf("Verify err: %v", err)
	}
	if email != "user@example.com" {
		t.Fatalf("email mismatch: got %q want %q", email, "user@example.com")
	}
}

func TestVerify_Expired(t *testing.T) {
	c := New([]byte("test-secret"), 180*time.Second)

	issued := time.Now()
	c.now = func() time.Time { return issued }
	tok := c.Sign("user@example.com")

	// justo dentro de la ventana
	c.now = func() time.Time { return issued.Add(179 * time.Second) }
	if _, err := c.Verify(tok); err != nil {
		t.Fatalf("Verify within window err: %v", err)
	}

	// pasada la ventana
	c.now = func() time.Time { return issued.Add(181 * time.Second) }
	_, err := c.Verify(tok)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("want ErrExpired, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	c := New([]byte("test-secret"), DefaultMaxAge)
	tok := c.Sign("user@example.com")

	parts := strings.SplitN(tok, ".", 2)
	if len(parts) != 2 {
		t.Fatalf("unexpected token shape: %q", tok)
	}

	// cambiar un byte del payload invalida el MAC
	mutated := "A" + parts[0][1:] + "." + parts[1]
	if mutated == tok {
		mutated = "B" + parts[0][1:] + "." + parts[1]
	}
	if _, err := c.Verify(mutated); !errors.Is(err, ErrInvalid) {
		t.Fatalf("want ErrInvalid for tampered payload, got %v", err)
	}

	// MAC de otro secreto
	other := New([]byte("other-secret"), DefaultMaxAge)
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("want ErrInvalid for wrong secret, got %v", err)
	}
}

func TestVerify_ForgedExpiredReadsAsInvalid(t *testing.T) {
	// Un token vencido y además manipulado tiene que dar Invalid, no
	// Expired: el MAC se chequea primero.
	c := New([]byte("test-secret"), time.Second)

	issued := time.Now().Add(-time.Hour)
	c.now = func() time.Time { return issued }
	tok := c.Sign("user@example.com")
	c.now = time.Now

	mutated := tok[:len(tok)-1] + "x"
	if mutated == tok {
		mutated = tok[:len(tok)-1] + "y"
	}
	if _, err := c.Verify(mutated); !errors.Is(err, ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	c := New([]byte("test-secret"), DefaultMaxAge)
	for _, tok := range []string{"", "no-dot", "a.b", "!!!.???"} {
		if _, err := c.Verify(tok); !errors.Is(err, ErrInvalid) {
			t.Fatalf("token %q: want ErrInvalid, got %v", tok, err)
		}
	}
}
