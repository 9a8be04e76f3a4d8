package tui

import (
	"strings"
	"testing"
	"time"

	"authflow/internal/domain"
	"authflow/internal/flow"
)

func TestEveryFormScreenHasFields(t *testing.T) {
	for _, s := range []domain.Screen{domain.ScreenSignup, domain.ScreenVerifyOTP, domain.ScreenLogin} {
		if len(screenFields[s]) == 0 {
			t.Errorf("%s has no input fields", s)
		}
		if screenTitle(s) == "" || footerHelp(s) == "" {
			t.Errorf("%s has no title or help", s)
		}
		for _, f := range screenFields[s] {
			found := false
			for _, n := range mainViews {
				found = found || n == f.name
			}
			if !found {
				t.Errorf("view %q is never cleared", f.name)
			}
		}
	}
}

func TestPasswordFieldsMasked(t *testing.T) {
	for _, fields := range screenFields {
		for _, f := range fields {
			if strings.Contains(f.name, "password") && !f.mask {
				t.Errorf("%s is not masked", f.name)
			}
		}
	}
}

func TestSignupText(t *testing.T) {
	got := signupText(flow.SignupView{
		Errors: domain.ValidationErrors{Email: domain.MsgInvalidEmail, Password: domain.MsgPasswordTooShort},
	})
	if !strings.Contains(got, domain.MsgInvalidEmail) || !strings.Contains(got, domain.MsgPasswordTooShort) {
		t.Errorf("signupText = %q", got)
	}
	if got := signupText(flow.SignupView{}); got != "" {
		t.Errorf("empty view rendered %q", got)
	}
}

func TestDashboardText(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v := flow.DashboardView{
		User:          domain.UserInfo{ID: 42, Username: "alice"},
		AccountStatus: flow.AccountStatusLabel,
		EmailStatus:   flow.EmailStatusLabel,
		Activity:      []flow.Activity{{Label: "Account login", At: at}},
		Profile: &domain.UserProfile{
			Username:  "alice",
			Email:     "alice@example.com",
			CreatedAt: domain.Timestamp{Time: at},
		},
	}

	got := dashboardText(v)
	for _, want := range []string{"Welcome back, alice!", "alice@example.com", "42", "Active", "Verified", "Account login", "Last updated:  -"} {
		if !strings.Contains(got, want) {
			t.Errorf("dashboard text lacks %q:\n%s", want, got)
		}
	}

	v.Profile = nil
	v.Error = flow.MsgBackendDown
	if got := dashboardText(v); !strings.Contains(got, flow.MsgBackendDown) || !strings.Contains(got, "retry") {
		t.Errorf("error state = %q", got)
	}
}

func TestInputValueKeepsPasswordSpaces(t *testing.T) {
	if got := inputValue("  alice@example.com ", false); got != "alice@example.com" {
		t.Errorf("plain input = %q", got)
	}
	if got := inputValue(" pass word ", true); got != " pass word " {
		t.Errorf("masked input = %q", got)
	}

	// seven visible characters plus padding still reach the eight minimum
	pw := inputValue(" 1234567", true)
	if errs := domain.ValidateSignup(domain.SignupForm{Email: "a@b.co", Password: pw}); errs.Password != "" {
		t.Errorf("password %q rejected: %s", pw, errs.Password)
	}
}
