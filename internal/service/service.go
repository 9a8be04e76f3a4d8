package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"authflow/internal/domain"

	"github.com/sirupsen/logrus"
)

// AuthClient - JSON client for the remote authentication API
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewAuthClient creates a client for the API at baseURL
func NewAuthClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *AuthClient {
	return &AuthClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Signup registers a new account. The ack body is not interpreted.
// POST /signup
func (c *AuthClient) Signup(ctx context.Context, req domain.SignupRequest) error {
	return c.do(ctx, "signup", http.MethodPost, "/signup", "", req, nil)
}

// SendOTP asks the server to deliver an OTP to email
// POST /send-otp
func (c *AuthClient) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, "send otp", http.MethodPost, "/send-otp", "", domain.SendOTPRequest{Email: email}, nil)
}

// VerifyOTP submits the code delivered to email
// POST /verify-otp
func (c *AuthClient) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.do(ctx, "verify otp", http.MethodPost, "/verify-otp", "", domain.VerifyOTPRequest{Email: email, OTP: otp}, nil)
}

// Login exchanges credentials for a bearer token and the user identity
// POST /login
func (c *AuthClient) Login(ctx context.Context, form domain.LoginForm) (string, domain.UserInfo, error) {
	var resp domain.LoginResponse
	req := domain.LoginRequest{Email: form.Email, Password: form.Password}
	if err := c.do(ctx, "login", http.MethodPost, "/login", "", req, &resp); err != nil {
		return "", domain.UserInfo{}, err
	}

	token, user, err := resp.Identity()
	if err != nil {
		return "", domain.UserInfo{}, fmt.Errorf("login: %w", err)
	}
	if user.Email == "" {
		user.Email = form.Email
	}

	c.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("Login succeeded")
	return token, user, nil
}

// Profile fetches the authenticated user's profile
// GET /api/me
func (c *AuthClient) Profile(ctx context.Context, token string) (*domain.UserProfile, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var profile domain.UserProfile
	if err := c.do(ctx, "fetch profile", http.MethodGet, "/api/me", token, nil, &profile); err != nil {
		return nil, err
	}
	if profile.ID <= 0 || profile.Username == "" {
		return nil, fmt.Errorf("fetch profile: %w: missing id or username", domain.ErrMalformedResponse)
	}
	return &profile, nil
}

// ResetPassword replaces the password of the account registered with email
// PUT /reset-password
func (c *AuthClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	req := domain.ResetPasswordRequest{Email: email, NewPassword: newPassword}
	return c.do(ctx, "reset password", http.MethodPut, "/reset-password", "", req, nil)
}

// do sends one JSON request. A nil out discards the success body.
func (c *AuthClient) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("op", op).Warn("Request failed without a response")
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp domain.ErrorResponse
		_ = json.Unmarshal(respBody, &errResp)
		c.log.WithFields(logrus.Fields{"op": op, "status": resp.StatusCode, "error": errResp.Error}).Info("Request rejected")
		return &domain.APIError{Status: resp.StatusCode, Message: errResp.Error}
	}

	c.log.WithFields(logrus.Fields{"op": op, "status": resp.StatusCode}).Debug("Request succeeded")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrMalformedResponse, err)
	}
	return nil
}
