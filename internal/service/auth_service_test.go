package service

import (
	"context"
	"errors"
	"testing"

	"authflow/internal/domain"
)

type fakeSignupBackend struct {
	signupErr  error
	sendErr    error
	signupReqs []domain.SignupRequest
	otpEmails  []string
}

func (f *fakeSignupBackend) Signup(ctx context.Context, req domain.SignupRequest) error {
	f.signupReqs = append(f.signupReqs, req)
	return f.signupErr
}

func (f *fakeSignupBackend) SendOTP(ctx context.Context, email string) error {
	f.otpEmails = append(f.otpEmails, email)
	return f.sendErr
}

func TestRegisterOutcomes(t *testing.T) {
	rejected := &domain.APIError{Status: 400, Message: "exists"}
	unreachable := &domain.TransportError{Op: "signup", Err: errors.New("connection refused")}

	tests := []struct {
		name      string
		signupErr error
		sendErr   error
		want      Outcome
		wantOTP   int
	}{
		{name: "both succeed", want: OutcomeSuccess, wantOTP: 1},
		{name: "otp rejected", sendErr: rejected, want: OutcomePartial, wantOTP: 1},
		{name: "otp unreachable", sendErr: unreachable, want: OutcomePartial, wantOTP: 1},
		{name: "signup rejected", signupErr: rejected, want: OutcomeRejected},
		{name: "signup unreachable", signupErr: unreachable, want: OutcomeUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeSignupBackend{signupErr: tt.signupErr, sendErr: tt.sendErr}
			svc := NewSignupService(backend, testLogger())

			res := svc.Register(context.Background(), domain.SignupForm{
				Username: "alice", Email: "alice@example.com", Password: "longenough",
			})
			if res.Outcome != tt.want {
				t.Errorf("Outcome = %s, want %s", res.Outcome, tt.want)
			}
			if len(backend.otpEmails) != tt.wantOTP {
				t.Errorf("send-otp calls = %d, want %d", len(backend.otpEmails), tt.wantOTP)
			}
			if tt.wantOTP == 1 && backend.otpEmails[0] != "alice@example.com" {
				t.Errorf("otp email = %q", backend.otpEmails[0])
			}
		})
	}
}
