package tui

import (
	"fmt"
	"strings"
	"time"

	"authflow/internal/domain"
	"authflow/internal/flow"
)

func screenTitle(s domain.Screen) string {
	switch s {
	case domain.ScreenSignup:
		return "Create Account"
	case domain.ScreenVerifyOTP:
		return "Verify OTP"
	case domain.ScreenLogin:
		return "Login"
	case domain.ScreenDashboard:
		return "Dashboard"
	}
	return ""
}

func footerHelp(s domain.Screen) string {
	switch s {
	case domain.ScreenSignup:
		return "tab: next field   enter: sign up   ctrl+l: login   ctrl+c: quit"
	case domain.ScreenVerifyOTP:
		return "tab: next field   enter: verify   ctrl+r: resend   ctrl+l: login   ctrl+s: back to signup   ctrl+c: quit"
	case domain.ScreenLogin:
		return "tab: next field   enter: login   ctrl+s: sign up   ctrl+c: quit"
	case domain.ScreenDashboard:
		return "ctrl+r: refresh   ctrl+o: logout   ctrl+c: quit"
	}
	return ""
}

func signupText(v flow.SignupView) string {
	var b strings.Builder
	if v.Loading {
		b.WriteString("Signing up...\n")
	}
	writeLine(&b, v.Errors.Email)
	writeLine(&b, v.Errors.Password)
	writeLine(&b, v.Success)
	writeLine(&b, v.Error)
	return b.String()
}

func verifyText(v flow.VerifyOTPView) string {
	var b strings.Builder
	switch {
	case v.Submitting:
		b.WriteString("Verifying...\n")
	case v.Resending:
		b.WriteString("Sending...\n")
	}
	writeLine(&b, v.Message)
	writeLine(&b, v.Error)
	return b.String()
}

func loginText(v flow.LoginView) string {
	var b strings.Builder
	if v.Loading {
		b.WriteString("Logging in...\n")
	}
	writeLine(&b, v.Error)
	return b.String()
}

func dashboardText(v flow.DashboardView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Welcome back, %s!\n\n", v.User.Username)

	switch {
	case v.Loading:
		b.WriteString("Loading profile...\n")
	case v.Error != "":
		fmt.Fprintf(&b, "%s\nPress ctrl+r to retry.\n", v.Error)
	case v.Profile != nil:
		fmt.Fprintf(&b, "Username:      %s\n", v.Profile.Username)
		fmt.Fprintf(&b, "Email:         %s\n", v.Profile.Email)
		fmt.Fprintf(&b, "Member since:  %s\n", formatDate(v.Profile.CreatedAt.Time))
		fmt.Fprintf(&b, "Last updated:  %s\n", formatDate(v.Profile.UpdatedAt.Time))
	}

	fmt.Fprintf(&b, "\nUser ID:         %d\n", v.User.ID)
	fmt.Fprintf(&b, "Account status:  %s\n", v.AccountStatus)
	fmt.Fprintf(&b, "Email status:    %s\n", v.EmailStatus)

	b.WriteString("\nRecent activity\n")
	for _, a := range v.Activity {
		fmt.Fprintf(&b, "  %s  %s\n", a.At.Local().Format("Jan 2, 2006 15:04"), a.Label)
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006")
}

func writeLine(b *strings.Builder, s string) {
	if s != "" {
		b.WriteString(s)
		b.WriteByte('\n')
	}
}
