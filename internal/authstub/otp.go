package authstub

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"authflow/internal/domain"
)

const (
	otpLength      = 6
	maxOTPAttempts = 3
)

// OTPStore keeps pending OTP codes in memory, keyed by email
type OTPStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	codes map[string]*otpEntry
}

type otpEntry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// NewOTPStore creates a store whose codes live for ttl
func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{
		ttl:   ttl,
		now:   time.Now,
		codes: make(map[string]*otpEntry),
	}
}

// Generate issues a fresh 6 digit code for email, replacing any pending one.
func (s *OTPStore) Generate(email string) (string, error) {
	code, err := randomCode(otpLength)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = &otpEntry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	return code, nil
}

// Verify consumes the pending code of email when it matches.
func (s *OTPStore) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return domain.ErrOTPNotFound
	}

	if s.now().After(entry.expiresAt) {
		delete(s.codes, email)
		return domain.ErrOTPExpired
	}

	if entry.attempts >= maxOTPAttempts {
		delete(s.codes, email)
		return domain.ErrOTPMaxAttempts
	}

	if entry.code != code {
		entry.attempts++
		return domain.ErrInvalidOTP
	}

	delete(s.codes, email)
	return nil
}

// Delete drops the pending code of email
func (s *OTPStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
}

// RunCleanup evicts expired codes every interval until ctx is done.
func (s *OTPStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *OTPStore) evictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for email, entry := range s.codes {
		if now.After(entry.expiresAt) {
			delete(s.codes, email)
			n++
		}
	}
	return n
}

// randomCode returns a numeric code of the given length
func randomCode(length int) (string, error) {
	const digits = "0123456789"
	code := make([]byte, length)

	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[num.Int64()]
	}

	return string(code), nil
}
