package flow

import (
	"context"
	"sync"
	"time"

	"authflow/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	MsgOTPVerified     = "OTP verified successfully! Redirecting to login..."
	MsgOTPVerifyFailed = "Verification failed."
	MsgOTPResent       = "OTP sent successfully! Check your email."
	MsgOTPResendFailed = "Failed to send OTP."
	MsgEmailFirst      = "Please enter your email first."
	MsgSomethingWrong  = "Something went wrong. Try again."
)

// VerifyOTPView - snapshot of the OTP screen for rendering
type VerifyOTPView struct {
	Email       string
	Code        string
	Submitting  bool
	Resending   bool
	Redirecting bool
	Message     string
	Error       string
}

// VerifyOTPScreen submits the emailed code and offers a resend
type VerifyOTPScreen struct {
	api           API
	scope         *scope
	notify        func()
	log           logrus.FieldLogger
	redirectDelay time.Duration

	onVerified     func() error
	onBackToSignup func() error

	mu          sync.Mutex
	otp         domain.OTPSession
	submitting  bool
	resending   bool
	redirecting bool
	message     string
	errMsg      string
}

func (s *VerifyOTPScreen) View() VerifyOTPView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VerifyOTPView{
		Email:       s.otp.Email,
		Code:        s.otp.Code,
		Submitting:  s.submitting,
		Resending:   s.resending,
		Redirecting: s.redirecting,
		Message:     s.message,
		Error:       s.errMsg,
	}
}

func (s *VerifyOTPScreen) SetEmail(v string) {
	s.mu.Lock()
	s.otp.Email = v
	s.mu.Unlock()
	s.notify()
}

// SetCode keeps at most domain.MaxOTPLength characters.
func (s *VerifyOTPScreen) SetCode(v string) {
	s.mu.Lock()
	s.otp.SetCode(v)
	s.mu.Unlock()
	s.notify()
}

// Submit posts the email and code. On success the verified callback runs
// once after the redirect delay, unless the screen is torn down first.
func (s *VerifyOTPScreen) Submit() error {
	s.mu.Lock()
	if s.submitting || s.redirecting {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	s.submitting = true
	s.message = ""
	s.errMsg = ""
	otp := s.otp
	s.mu.Unlock()
	s.notify()

	err := s.api.VerifyOTP(s.scope.ctx, otp.Email, otp.Code)

	s.mu.Lock()
	if !s.scope.alive() {
		s.mu.Unlock()
		return context.Canceled
	}
	s.submitting = false
	if err != nil {
		if domain.IsTransport(err) {
			s.errMsg = MsgSomethingWrong
		} else {
			s.errMsg = domain.ServerMessage(err, MsgOTPVerifyFailed)
		}
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.message = MsgOTPVerified
	s.otp.Code = ""
	s.redirecting = true
	s.mu.Unlock()
	s.notify()

	s.log.WithField("email", otp.Email).Info("OTP verified")
	go s.redirectAfterDelay()
	return nil
}

func (s *VerifyOTPScreen) redirectAfterDelay() {
	t := time.NewTimer(s.redirectDelay)
	defer t.Stop()
	select {
	case <-t.C:
		s.onVerified()
	case <-s.scope.ctx.Done():
	}
}

// Resend triggers a new OTP for the current email.
func (s *VerifyOTPScreen) Resend() error {
	s.mu.Lock()
	if s.resending {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	email := s.otp.Email
	if email == "" {
		s.errMsg = MsgEmailFirst
		s.mu.Unlock()
		s.notify()
		return domain.ErrEmailRequired
	}
	s.resending = true
	s.mu.Unlock()
	s.notify()

	err := s.api.SendOTP(s.scope.ctx, email)

	s.mu.Lock()
	if !s.scope.alive() {
		s.mu.Unlock()
		return context.Canceled
	}
	s.resending = false
	switch {
	case err == nil:
		s.message = MsgOTPResent
		s.errMsg = ""
	case domain.IsTransport(err):
		s.errMsg = MsgSomethingWrong
	default:
		s.errMsg = domain.ServerMessage(err, MsgOTPResendFailed)
	}
	s.mu.Unlock()
	s.notify()
	return err
}

// GoToLogin skips straight to the login screen.
func (s *VerifyOTPScreen) GoToLogin() error {
	return s.onVerified()
}

// BackToSignup returns to signup and forgets the carried email.
func (s *VerifyOTPScreen) BackToSignup() error {
	return s.onBackToSignup()
}
