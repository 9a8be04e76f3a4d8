package domain

import (
	"fmt"
	"strings"
)

// SignupRequest - body of POST /signup
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse - ack of POST /signup
type SignupResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id,omitempty"`
}

// SendOTPRequest - body of POST /send-otp
type SendOTPRequest struct {
	Email string `json:"email"`
}

// SendOTPResponse - ack of POST /send-otp
type SendOTPResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"` // dev backend only
}

// VerifyOTPRequest - body of POST /verify-otp
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginRequest - body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse - body of a successful POST /login.
// Two shapes are seen in the wild: {token, user:{id,username,email}} and the
// flat {token, user_id, username, email}.
type LoginResponse struct {
	Message  string    `json:"message,omitempty"`
	Token    string    `json:"token"`
	User     *UserInfo `json:"user,omitempty"`
	UserID   int64     `json:"user_id,omitempty"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
}

// Identity validates the response and returns the token and user it carries.
func (r *LoginResponse) Identity() (string, UserInfo, error) {
	token := strings.TrimSpace(r.Token)
	if token == "" {
		return "", UserInfo{}, fmt.Errorf("%w: missing token", ErrMalformedResponse)
	}

	var user UserInfo
	if r.User != nil {
		user = *r.User
	} else {
		user = UserInfo{ID: r.UserID, Username: r.Username, Email: r.Email}
	}

	if user.ID <= 0 {
		return "", UserInfo{}, fmt.Errorf("%w: missing user id", ErrMalformedResponse)
	}
	if user.Username == "" {
		return "", UserInfo{}, fmt.Errorf("%w: missing username", ErrMalformedResponse)
	}

	return token, user, nil
}

// ResetPasswordRequest - body of PUT /reset-password
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// MessageResponse - generic {message} ack
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse - standard error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
