package authstub

import (
	"errors"
	"strings"

	"authflow/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const userIDKey = "user_id"

// Handler serves the auth REST API
type Handler struct {
	users      *UserStore
	otps       *OTPStore
	tokens     *TokenIssuer
	log        logrus.FieldLogger
	bcryptCost int
}

// NewHandler creates the API handler. bcryptCost of 0 means bcrypt.DefaultCost.
func NewHandler(users *UserStore, otps *OTPStore, tokens *TokenIssuer, log logrus.FieldLogger, bcryptCost int) *Handler {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Handler{
		users:      users,
		otps:       otps,
		tokens:     tokens,
		log:        log,
		bcryptCost: bcryptCost,
	}
}

// Register mounts the routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/signup", h.Signup)
	app.Post("/send-otp", h.SendOTP)
	app.Post("/verify-otp", h.VerifyOTP)
	app.Post("/login", h.Login)
	app.Put("/reset-password", h.ResetPassword)

	api := app.Group("/api", h.RequireBearer)
	api.Get("/me", h.Me)
}

// Signup creates an unverified account
// POST /signup
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req domain.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.WithError(err).Warn("Failed to parse signup request")
		return respondBadRequest(c, "Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return respondBadRequest(c, "Username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		return respondInternalError(c, "Server error", err.Error())
	}

	id, err := h.users.Create(c.UserContext(), req.Username, req.Email, string(hash))
	if err != nil {
		h.log.WithError(err).WithField("email", req.Email).Warn("Signup failed")
		return respondBadRequest(c, "Could not create user (maybe username/email exists)")
	}

	h.log.WithFields(logrus.Fields{"user_id": id, "email": req.Email}).Info("User created")
	return respondOK(c, domain.SignupResponse{Message: "Signup successful", UserID: id})
}

// SendOTP issues a code for an existing account. The code is logged and
// returned in the body since no mail transport is wired.
// POST /send-otp
func (h *Handler) SendOTP(c *fiber.Ctx) error {
	var req domain.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return respondBadRequest(c, domain.ErrEmailRequired.Error())
	}

	if _, err := h.users.FindByEmail(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return respondNotFound(c, "User not found")
		}
		return respondInternalError(c, "Internal Server error while fetching user from db", err.Error())
	}

	code, err := h.otps.Generate(req.Email)
	if err != nil {
		return respondInternalError(c, "Failed to generate OTP code", err.Error())
	}

	h.log.WithFields(logrus.Fields{"email": req.Email, "code": code}).Info("OTP generated")
	return respondOK(c, domain.SendOTPResponse{Message: "OTP sent successfully", Code: code})
}

// VerifyOTP checks the code and marks the account verified
// POST /verify-otp
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req domain.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	if _, err := h.users.FindByEmail(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return respondNotFound(c, "User not found")
		}
		return respondInternalError(c, "Database error", err.Error())
	}

	if err := h.otps.Verify(req.Email, req.OTP); err != nil {
		h.log.WithError(err).WithField("email", req.Email).Warn("OTP verification failed")
		return respondBadRequest(c, otpErrorMessage(err))
	}

	if err := h.users.MarkVerified(c.UserContext(), req.Email); err != nil {
		return respondInternalError(c, "Could not update verification status", err.Error())
	}

	h.log.WithField("email", req.Email).Info("OTP verified")
	return respondOK(c, domain.MessageResponse{Message: "OTP verified successfully"})
}

func otpErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPNotFound):
		return "No OTP found, request a new one"
	case errors.Is(err, domain.ErrOTPExpired):
		return "OTP expired"
	case errors.Is(err, domain.ErrOTPMaxAttempts):
		return "Too many failed attempts, request a new OTP"
	default:
		return "Invalid OTP"
	}
}

// Login exchanges verified credentials for a bearer token
// POST /login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	user, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return respondUnauthorized(c, "Invalid email or password")
		}
		return respondInternalError(c, "Server error", err.Error())
	}

	if !user.IsVerified {
		return respondUnauthorized(c, "Account not verified. Please check your email for OTP.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return respondUnauthorized(c, "Invalid email or password")
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return respondInternalError(c, "Server error", err.Error())
	}

	h.log.WithField("user_id", user.ID).Info("User logged in")
	return respondOK(c, domain.LoginResponse{
		Message:  "Login successful",
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}

// ResetPassword replaces the password of an account
// PUT /reset-password
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req domain.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.NewPassword == "" {
		return respondBadRequest(c, "Email and new password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.bcryptCost)
	if err != nil {
		return respondInternalError(c, "Server error", err.Error())
	}

	if err := h.users.SetPasswordHash(c.UserContext(), req.Email, string(hash)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return respondNotFound(c, "No user found with that email")
		}
		return respondInternalError(c, "Server error", err.Error())
	}

	return respondOK(c, domain.MessageResponse{Message: "Password updated successfully"})
}

// RequireBearer rejects requests without a valid bearer token and stores
// the user id in Locals.
func (h *Handler) RequireBearer(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return respondUnauthorized(c, "Missing token")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return respondUnauthorized(c, "Invalid token format")
	}

	id, err := h.tokens.Parse(token)
	if err != nil {
		return respondUnauthorized(c, "Invalid or expired token")
	}

	c.Locals(userIDKey, id)
	return c.Next()
}

// Me returns the profile of the token owner
// GET /api/me
func (h *Handler) Me(c *fiber.Ctx) error {
	id, ok := c.Locals(userIDKey).(int64)
	if !ok {
		return respondUnauthorized(c, "Missing token")
	}

	user, err := h.users.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return respondNotFound(c, "User not found")
		}
		return respondInternalError(c, "Server error", err.Error())
	}

	return respondOK(c, user.Profile())
}
