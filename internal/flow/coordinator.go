package flow

import (
	"context"
	"sync"
	"time"

	"authflow/internal/domain"
	"authflow/internal/service"

	"github.com/sirupsen/logrus"
)

// RedirectDelay - pause between OTP confirmation and the move to login
const RedirectDelay = 1500 * time.Millisecond

// API - remote calls made by the screens
type API interface {
	service.SignupBackend
	VerifyOTP(ctx context.Context, email, otp string) error
	Login(ctx context.Context, form domain.LoginForm) (string, domain.UserInfo, error)
	Profile(ctx context.Context, token string) (*domain.UserProfile, error)
}

// scope is the lifetime of one mounted screen. Results that arrive after
// the scope ends are dropped.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newScope() *scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &scope{ctx: ctx, cancel: cancel}
}

func (s *scope) alive() bool { return s.ctx.Err() == nil }

// Option configures a Coordinator
type Option func(*Coordinator)

// WithRedirectDelay overrides RedirectDelay.
func WithRedirectDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.redirectDelay = d }
}

// WithClock overrides time.Now for the dashboard activity stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// Coordinator selects the single active screen and moves between them
type Coordinator struct {
	api     API
	signup  *service.SignupService
	session *service.Session
	log     logrus.FieldLogger

	redirectDelay time.Duration
	now           func() time.Time

	mu        sync.Mutex
	current   domain.Screen
	userEmail string
	userInfo  *domain.UserInfo
	scope     *scope
	active    any
	closed    bool

	lmu       sync.Mutex
	listeners []func()
}

// NewCoordinator creates a coordinator with the signup screen mounted.
func NewCoordinator(api API, session *service.Session, log logrus.FieldLogger, opts ...Option) *Coordinator {
	c := &Coordinator{
		api:           api,
		signup:        service.NewSignupService(api, log),
		session:       session,
		log:           log,
		redirectDelay: RedirectDelay,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	c.mountLocked(domain.ScreenSignup, "")
	c.mu.Unlock()
	return c
}

// OnChange registers fn to run after every state change of the flow.
func (c *Coordinator) OnChange(fn func()) {
	c.lmu.Lock()
	defer c.lmu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Coordinator) notify() {
	c.lmu.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.lmu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Screen returns the active screen.
func (c *Coordinator) Screen() domain.Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// UserEmail returns the email carried from signup to OTP verification.
func (c *Coordinator) UserEmail() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userEmail
}

// UserInfo returns the identity of the logged in user.
func (c *Coordinator) UserInfo() (domain.UserInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userInfo == nil {
		return domain.UserInfo{}, false
	}
	return *c.userInfo, true
}

// Signup returns the signup screen, or nil when another screen is active.
func (c *Coordinator) Signup() *SignupScreen {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, _ := c.active.(*SignupScreen)
	return s
}

// VerifyOTP returns the OTP screen, or nil when another screen is active.
func (c *Coordinator) VerifyOTP() *VerifyOTPScreen {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, _ := c.active.(*VerifyOTPScreen)
	return s
}

// Login returns the login screen, or nil when another screen is active.
func (c *Coordinator) Login() *LoginScreen {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, _ := c.active.(*LoginScreen)
	return s
}

// Dashboard returns the dashboard, or nil when another screen is active.
func (c *Coordinator) Dashboard() *DashboardScreen {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, _ := c.active.(*DashboardScreen)
	return s
}

// Close tears down the active screen. In-flight requests are cancelled.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.scope != nil {
		c.scope.cancel()
	}
}

// transition moves from the screen owning sc to `to`. Requests from a screen
// that is no longer mounted are refused.
func (c *Coordinator) transition(sc *scope, to domain.Screen, notice string, mutate func()) error {
	c.mu.Lock()
	if c.closed || c.scope != sc || !sc.alive() {
		c.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	from := c.current
	if mutate != nil {
		mutate()
	}
	sc.cancel()
	dash := c.mountLocked(to, notice)
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Info("Screen changed")
	c.notify()

	if dash != nil {
		go dash.fetch()
	}
	return nil
}

// mountLocked creates the screen `to` with a fresh scope. The dashboard is
// returned so its first fetch can start once the lock is released.
func (c *Coordinator) mountLocked(to domain.Screen, notice string) *DashboardScreen {
	sc := newScope()
	c.scope = sc
	c.current = to

	switch to {
	case domain.ScreenSignup:
		c.active = &SignupScreen{
			svc:    c.signup,
			scope:  sc,
			notify: c.notify,
			onSuccess: func(email, msg string) {
				c.transition(sc, domain.ScreenVerifyOTP, msg, func() { c.userEmail = email })
			},
			onGoToLogin: func() error {
				return c.transition(sc, domain.ScreenLogin, "", nil)
			},
		}
	case domain.ScreenVerifyOTP:
		c.active = &VerifyOTPScreen{
			api:           c.api,
			scope:         sc,
			notify:        c.notify,
			log:           c.log,
			redirectDelay: c.redirectDelay,
			otp:           domain.OTPSession{Email: c.userEmail},
			message:       notice,
			onVerified: func() error {
				return c.transition(sc, domain.ScreenLogin, "", nil)
			},
			onBackToSignup: func() error {
				return c.transition(sc, domain.ScreenSignup, "", func() { c.userEmail = "" })
			},
		}
	case domain.ScreenLogin:
		c.active = &LoginScreen{
			api:     c.api,
			session: c.session,
			scope:   sc,
			notify:  c.notify,
			log:     c.log,
			onSuccess: func(user domain.UserInfo) {
				c.transition(sc, domain.ScreenDashboard, "", func() { c.userInfo = &user })
			},
			onGoToSignup: func() error {
				return c.transition(sc, domain.ScreenSignup, "", func() {
					c.userEmail = ""
					c.userInfo = nil
				})
			},
		}
	case domain.ScreenDashboard:
		user := domain.UserInfo{}
		if c.userInfo != nil {
			user = *c.userInfo
		} else if u, ok := c.session.User(); ok {
			user = u
		}
		dash := &DashboardScreen{
			api:       c.api,
			session:   c.session,
			scope:     sc,
			notify:    c.notify,
			log:       c.log,
			user:      user,
			mountedAt: c.now(),
			loading:   true,
			onLogout: func() error {
				return c.transition(sc, domain.ScreenLogin, "", func() {
					if err := c.session.Clear(); err != nil {
						c.log.WithError(err).Error("Failed to clear session on logout")
					}
					c.userInfo = nil
				})
			},
		}
		c.active = dash
		return dash
	}
	return nil
}
