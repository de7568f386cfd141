package oauth

import (
	"errors"
	"testing"
	"time"
)

func TestStateSigner_RoundTrip(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"), time.Minute)

	tok, err := s.Sign(ProviderNaver, "naver-client")
	if err != nil {
		t.Fatalf("Sign err: %v", err)
	}
	if err := s.Verify(tok, ProviderNaver, "naver-client"); err != nil {
		t.Fatalf("Verify err: %v", err)
	}
}

func TestStateSigner_Mismatches(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"), time.Minute)
	tok, err := s.Sign(ProviderNaver, "naver-client")
	if err != nil {
		t.Fatalf("Sign err: %v", err)
	}

	if err := s.Verify(tok, ProviderKakao, "naver-client"); !errors.Is(err, ErrStateProvider) {
		t.Fatalf("want ErrStateProvider, got %v", err)
	}
	if err := s.Verify(tok, ProviderNaver, "other-client"); !errors.Is(err, ErrStateClient) {
		t.Fatalf("want ErrStateClient, got %v", err)
	}

	other := NewStateSigner([]byte("other-secret"), time.Minute)
	if err := other.Verify(tok, ProviderNaver, "naver-client"); !errors.Is(err, ErrStateInvalid) {
		t.Fatalf("want ErrStateInvalid, got %v", err)
	}
}

func TestStateSigner_Expired(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"), -1) // TTL<=0 usa default
	if s.TTL <= 0 {
		t.Fatalf("default ttl not applied: %v", s.TTL)
	}

	short := &StateSigner{Secret: []byte("state-secret"), TTL: -time.Minute}
	tok, err := short.Sign(ProviderNaver, "naver-client")
	if err != nil {
		t.Fatalf("Sign err: %v", err)
	}
	if err := s.Verify(tok, ProviderNaver, "naver-client"); !errors.Is(err, ErrStateExpired) {
		t.Fatalf("want ErrStateExpired, got %v", err)
	}
}

func TestStateSigner_Garbage(t *testing.T) {
	s := NewStateSigner([]byte("state-secret"), time.Minute)
	if err := s.Verify("not-a-jwt", ProviderNaver, "naver-client"); !errors.Is(err, ErrStateInvalid) {
		t.Fatalf("want ErrStateInvalid, got %v", err)
	}
}
