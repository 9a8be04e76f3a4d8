package flow

import (
	"context"
	"strings"
	"sync"

	"authflow/internal/domain"
	"authflow/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	MsgCredentialsRequired = "Email and password are required"
	MsgLoginFailed         = "Login failed."
	MsgSessionFailed       = "Could not store the session. Try again."
)

// LoginView - snapshot of the login screen for rendering
type LoginView struct {
	Form    domain.LoginForm
	Loading bool
	Error   string
}

// LoginScreen exchanges credentials for a bearer token
type LoginScreen struct {
	api     API
	session *service.Session
	scope   *scope
	notify  func()
	log     logrus.FieldLogger

	onSuccess    func(user domain.UserInfo)
	onGoToSignup func() error

	mu      sync.Mutex
	form    domain.LoginForm
	loading bool
	errMsg  string
}

func (s *LoginScreen) View() LoginView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoginView{Form: s.form, Loading: s.loading, Error: s.errMsg}
}

func (s *LoginScreen) SetEmail(v string) {
	s.mu.Lock()
	s.form.Email = v
	s.mu.Unlock()
	s.notify()
}

func (s *LoginScreen) SetPassword(v string) {
	s.mu.Lock()
	s.form.Password = v
	s.mu.Unlock()
	s.notify()
}

// Submit logs in, starts the session and moves to the dashboard.
func (s *LoginScreen) Submit() error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	if strings.TrimSpace(s.form.Email) == "" || s.form.Password == "" {
		s.errMsg = MsgCredentialsRequired
		s.mu.Unlock()
		s.notify()
		return domain.ErrCredentialsRequired
	}
	s.loading = true
	s.errMsg = ""
	form := s.form
	s.mu.Unlock()
	s.notify()

	token, user, err := s.api.Login(s.scope.ctx, form)

	s.mu.Lock()
	if !s.scope.alive() {
		s.mu.Unlock()
		return context.Canceled
	}
	s.loading = false
	if err != nil {
		if domain.IsTransport(err) {
			s.errMsg = MsgServerError
		} else {
			s.errMsg = domain.ServerMessage(err, MsgLoginFailed)
		}
		s.mu.Unlock()
		s.notify()
		return err
	}
	if err := s.session.Start(token, user); err != nil {
		s.errMsg = MsgSessionFailed
		s.mu.Unlock()
		s.log.WithError(err).Error("Failed to start session")
		s.notify()
		return err
	}
	s.form.Password = ""
	s.mu.Unlock()
	s.notify()

	s.onSuccess(user)
	return nil
}

// GoToSignup returns to signup, dropping email and user state.
func (s *LoginScreen) GoToSignup() error {
	return s.onGoToSignup()
}
