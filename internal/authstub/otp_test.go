package authstub

import (
	"errors"
	"testing"
	"time"

	"authflow/internal/domain"
)

func TestOTPGenerateAndVerify(t *testing.T) {
	s := NewOTPStore(5 * time.Minute)

	code, err := s.Generate("alice@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("code %q has length %d", code, len(code))
	}

	if err := s.Verify("alice@example.com", code); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := s.Verify("alice@example.com", code); !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("second Verify = %v, code must be single use", err)
	}
}

func TestOTPMaxAttempts(t *testing.T) {
	s := NewOTPStore(5 * time.Minute)
	code, _ := s.Generate("a@b.co")

	for i := 0; i < maxOTPAttempts; i++ {
		if err := s.Verify("a@b.co", "xxxxxx"); !errors.Is(err, domain.ErrInvalidOTP) {
			t.Fatalf("attempt %d = %v", i, err)
		}
	}
	if err := s.Verify("a@b.co", code); !errors.Is(err, domain.ErrOTPMaxAttempts) {
		t.Errorf("Verify after lockout = %v", err)
	}
}

func TestOTPExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewOTPStore(time.Minute)
	s.now = func() time.Time { return now }

	code, _ := s.Generate("a@b.co")
	s.Generate("c@d.co")

	now = now.Add(2 * time.Minute)
	if err := s.Verify("a@b.co", code); !errors.Is(err, domain.ErrOTPExpired) {
		t.Errorf("Verify = %v", err)
	}
	if n := s.evictExpired(); n != 1 {
		t.Errorf("evicted %d, want 1", n)
	}
}

func TestOTPRegenerateReplacesCode(t *testing.T) {
	s := NewOTPStore(time.Minute)
	s.Generate("a@b.co")
	s.codes["a@b.co"].attempts = 2

	code, _ := s.Generate("a@b.co")
	if s.codes["a@b.co"].attempts != 0 {
		t.Error("attempts carried over to the new code")
	}
	if err := s.Verify("a@b.co", code); err != nil {
		t.Errorf("Verify: %v", err)
	}
}
