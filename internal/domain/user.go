package domain

// SignupForm - fields collected by the signup screen
type SignupForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginForm - credentials exchanged for a bearer token
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPSession - email + code pair owned by the verify screen
type OTPSession struct {
	Email string
	Code  string
}

// MaxOTPLength - the verify screen never holds more than this many characters
const MaxOTPLength = 6

// SetCode stores code truncated to MaxOTPLength characters.
func (s *OTPSession) SetCode(code string) {
	r := []rune(code)
	if len(r) > MaxOTPLength {
		r = r[:MaxOTPLength]
	}
	s.Code = string(r)
}

// UserInfo - identity returned by login, kept by the coordinator for the session
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserProfile - response of the profile endpoint
type UserProfile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}
