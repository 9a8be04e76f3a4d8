package flow

import (
	"context"
	"sync"

	"authflow/internal/domain"
	"authflow/internal/service"
)

const (
	MsgSignupSuccess = "Signup successful! OTP sent to your email."
	MsgSignupPartial = "Signup successful, but failed to send OTP. Please try again."
	MsgSignupFailed  = "Signup failed."
	MsgServerError   = "Server error."
)

// SignupView - snapshot of the signup screen for rendering
type SignupView struct {
	Form    domain.SignupForm
	Errors  domain.ValidationErrors
	Loading bool
	Success string
	Error   string
}

// SignupScreen collects the account fields, validates them and runs the
// signup + send-otp sequence
type SignupScreen struct {
	svc    *service.SignupService
	scope  *scope
	notify func()

	onSuccess   func(email, msg string)
	onGoToLogin func() error

	mu      sync.Mutex
	form    domain.SignupForm
	errors  domain.ValidationErrors
	loading bool
	success string
	errMsg  string
}

func (s *SignupScreen) View() SignupView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SignupView{
		Form:    s.form,
		Errors:  s.errors,
		Loading: s.loading,
		Success: s.success,
		Error:   s.errMsg,
	}
}

func (s *SignupScreen) SetUsername(v string) { s.edit(func(f *domain.SignupForm) { f.Username = v }) }
func (s *SignupScreen) SetEmail(v string)    { s.edit(func(f *domain.SignupForm) { f.Email = v }) }
func (s *SignupScreen) SetPassword(v string) { s.edit(func(f *domain.SignupForm) { f.Password = v }) }

// any edit clears the validation errors
func (s *SignupScreen) edit(fn func(*domain.SignupForm)) {
	s.mu.Lock()
	fn(&s.form)
	s.errors = domain.ValidationErrors{}
	s.mu.Unlock()
	s.notify()
}

// Submit validates the form and, when it passes, registers the account.
// Validation failures are returned as domain.ValidationErrors with no
// request made.
func (s *SignupScreen) Submit() error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	errs := domain.ValidateSignup(s.form)
	s.errors = errs
	if !errs.Empty() {
		s.mu.Unlock()
		s.notify()
		return errs
	}
	s.loading = true
	s.success = ""
	s.errMsg = ""
	form := s.form
	s.mu.Unlock()
	s.notify()

	res := s.svc.Register(s.scope.ctx, form)

	s.mu.Lock()
	if !s.scope.alive() {
		s.mu.Unlock()
		return context.Canceled
	}
	s.loading = false
	switch res.Outcome {
	case service.OutcomeSuccess:
		s.success = MsgSignupSuccess
		s.form = domain.SignupForm{}
	case service.OutcomePartial:
		s.success = MsgSignupPartial
		s.form = domain.SignupForm{}
	case service.OutcomeRejected:
		s.errMsg = domain.ServerMessage(res.Err, MsgSignupFailed)
	case service.OutcomeUnreachable:
		s.errMsg = MsgServerError
	}
	s.mu.Unlock()
	s.notify()

	if res.Outcome == service.OutcomeSuccess {
		s.onSuccess(form.Email, MsgSignupSuccess)
	}
	if res.Outcome == service.OutcomeRejected || res.Outcome == service.OutcomeUnreachable {
		return res.Err
	}
	return nil
}

// GoToLogin leaves signup for the login screen.
func (s *SignupScreen) GoToLogin() error {
	return s.onGoToLogin()
}
