package service

import (
	"context"

	"authflow/internal/domain"

	"github.com/sirupsen/logrus"
)

// Outcome of the two-step signup
type Outcome int

const (
	// OutcomeSuccess - account created and OTP sent
	OutcomeSuccess Outcome = iota
	// OutcomePartial - account created, OTP delivery failed
	OutcomePartial
	// OutcomeRejected - the server refused the signup
	OutcomeRejected
	// OutcomeUnreachable - no response to the signup request
	OutcomeUnreachable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartial:
		return "partial"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// SignupResult - combined result of signup followed by send-otp
type SignupResult struct {
	Outcome Outcome
	Err     error
}

// SignupBackend is the part of AuthClient the signup sequence needs
type SignupBackend interface {
	Signup(ctx context.Context, req domain.SignupRequest) error
	SendOTP(ctx context.Context, email string) error
}

// SignupService runs signup and OTP delivery as one sequential operation
type SignupService struct {
	api SignupBackend
	log logrus.FieldLogger
}

func NewSignupService(api SignupBackend, log logrus.FieldLogger) *SignupService {
	return &SignupService{api: api, log: log}
}

// Register creates the account and, only if that succeeded, triggers OTP delivery.
func (s *SignupService) Register(ctx context.Context, form domain.SignupForm) SignupResult {
	log := s.log.WithField("email", form.Email)

	err := s.api.Signup(ctx, domain.SignupRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if domain.IsTransport(err) {
			log.WithError(err).Warn("Signup request got no response")
			return SignupResult{Outcome: OutcomeUnreachable, Err: err}
		}
		log.WithError(err).Info("Signup rejected")
		return SignupResult{Outcome: OutcomeRejected, Err: err}
	}

	if err := s.api.SendOTP(ctx, form.Email); err != nil {
		log.WithError(err).Warn("Account created but OTP delivery failed")
		return SignupResult{Outcome: OutcomePartial, Err: err}
	}

	log.Info("Account created and OTP sent")
	return SignupResult{Outcome: OutcomeSuccess}
}
