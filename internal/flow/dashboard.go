package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"authflow/internal/domain"
	"authflow/internal/service"

	"github.com/sirupsen/logrus"
)

const (
	MsgNotLoggedIn     = "Not logged in."
	MsgProfileFailed   = "Failed to fetch profile"
	MsgBackendDown     = "Something went wrong. Make sure backend is running."
	AccountStatusLabel = "Active"
	EmailStatusLabel   = "Verified"
)

// Activity - one line of the recent activity list
type Activity struct {
	Label string
	At    time.Time
}

// DashboardView - snapshot of the dashboard for rendering
type DashboardView struct {
	User          domain.UserInfo
	Loading       bool
	Error         string
	Profile       *domain.UserProfile
	AccountStatus string
	EmailStatus   string
	Activity      []Activity
}

// DashboardScreen loads the profile of the logged in user
type DashboardScreen struct {
	api     API
	session *service.Session
	scope   *scope
	notify  func()
	log     logrus.FieldLogger

	user      domain.UserInfo
	mountedAt time.Time
	onLogout  func() error

	mu      sync.Mutex
	loading bool
	errMsg  string
	profile *domain.UserProfile
}

func (d *DashboardScreen) View() DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := DashboardView{
		User:          d.user,
		Loading:       d.loading,
		Error:         d.errMsg,
		AccountStatus: AccountStatusLabel,
		EmailStatus:   EmailStatusLabel,
		Activity: []Activity{
			{Label: "Account login", At: d.mountedAt},
			{Label: "Profile accessed", At: d.mountedAt},
		},
	}
	if d.profile != nil {
		p := *d.profile
		v.Profile = &p
	}
	return v
}

// Refresh re-issues the profile fetch. Ignored while a fetch is running.
func (d *DashboardScreen) Refresh() error {
	d.mu.Lock()
	if d.loading {
		d.mu.Unlock()
		return domain.ErrBusy
	}
	d.loading = true
	d.errMsg = ""
	d.mu.Unlock()
	d.notify()

	return d.fetch()
}

// Retry is Refresh offered from the error state.
func (d *DashboardScreen) Retry() error {
	return d.Refresh()
}

// fetch expects loading to be set already.
func (d *DashboardScreen) fetch() error {
	token, ok := d.session.Token()
	if !ok {
		d.finish(nil, domain.ErrNotAuthenticated)
		return domain.ErrNotAuthenticated
	}

	profile, err := d.api.Profile(d.scope.ctx, token)
	if !d.finish(profile, err) {
		return context.Canceled
	}
	return err
}

// finish applies a fetch result; false when the screen is already gone.
func (d *DashboardScreen) finish(profile *domain.UserProfile, err error) bool {
	d.mu.Lock()
	if !d.scope.alive() {
		d.mu.Unlock()
		return false
	}
	d.loading = false
	switch {
	case err == nil:
		d.profile = profile
		d.errMsg = ""
	case errors.Is(err, domain.ErrNotAuthenticated):
		d.profile = nil
		d.errMsg = MsgNotLoggedIn
	case domain.IsTransport(err):
		d.profile = nil
		d.errMsg = MsgBackendDown
	default:
		d.profile = nil
		d.errMsg = domain.ServerMessage(err, MsgProfileFailed)
	}
	d.mu.Unlock()

	if err != nil {
		d.log.WithError(err).Warn("Profile fetch failed")
	}
	d.notify()
	return true
}

// Logout clears the stored token and returns to login. No server call.
func (d *DashboardScreen) Logout() error {
	return d.onLogout()
}
