package domain

// Screen - one of the four screens of the flow
type Screen int

const (
	ScreenSignup Screen = iota
	ScreenVerifyOTP
	ScreenLogin
	ScreenDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenSignup:
		return "signup"
	case ScreenVerifyOTP:
		return "verify-otp"
	case ScreenLogin:
		return "login"
	case ScreenDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}
