package delivery

import (
	"errors"

	"authflow/internal/domain"
	"authflow/internal/flow"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SessionCookie - name of the cookie carrying the browser session id
const SessionCookie = "authflow_sid"

// WebHandler renders the active screen of each browser and applies its forms
type WebHandler struct {
	registry *Registry
	log      logrus.FieldLogger
}

func NewWebHandler(registry *Registry, log logrus.FieldLogger) *WebHandler {
	return &WebHandler{registry: registry, log: log}
}

// Register mounts the routes on app.
func (h *WebHandler) Register(app *fiber.App) {
	app.Get("/", h.Page)
	app.Get("/api/state", h.State)

	app.Post("/signup", h.Signup)
	app.Post("/signup/login", h.SignupToLogin)

	app.Post("/verify", h.VerifyOTP)
	app.Post("/verify/resend", h.ResendOTP)
	app.Post("/verify/login", h.VerifyToLogin)
	app.Post("/verify/back", h.VerifyBack)

	app.Post("/login", h.Login)
	app.Post("/login/signup", h.LoginToSignup)

	app.Post("/dashboard/refresh", h.Refresh)
	app.Post("/dashboard/logout", h.Logout)
}

// flowFor returns the flow of the requesting browser, issuing a session
// cookie when it has none.
func (h *WebHandler) flowFor(c *fiber.Ctx) *flow.Coordinator {
	sent := c.Cookies(SessionCookie)
	id, f := h.registry.Lookup(sent)
	if id != sent {
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return f
}

// Page renders the active screen
// GET /
func (h *WebHandler) Page(c *fiber.Ctx) error {
	html, err := renderPage(buildPage(h.flowFor(c)))
	if err != nil {
		h.log.WithError(err).Error("Failed to render page")
		return respondWithError(c, fiber.StatusInternalServerError, "Failed to render page", err.Error())
	}
	return respondPage(c, html)
}

// State returns the active screen and its view as JSON
// GET /api/state
func (h *WebHandler) State(c *fiber.Ctx) error {
	return respondOK(c, buildPage(h.flowFor(c)).redacted())
}

// Signup - POST /signup
func (h *WebHandler) Signup(c *fiber.Ctx) error {
	s := h.flowFor(c).Signup()
	if s == nil {
		return redirectHome(c)
	}
	s.SetUsername(c.FormValue("username"))
	s.SetEmail(c.FormValue("email"))
	s.SetPassword(c.FormValue("password"))
	return h.done(c, "signup", s.Submit())
}

// SignupToLogin - POST /signup/login
func (h *WebHandler) SignupToLogin(c *fiber.Ctx) error {
	if s := h.flowFor(c).Signup(); s != nil {
		return h.done(c, "go to login", s.GoToLogin())
	}
	return redirectHome(c)
}

// VerifyOTP - POST /verify
func (h *WebHandler) VerifyOTP(c *fiber.Ctx) error {
	s := h.flowFor(c).VerifyOTP()
	if s == nil {
		return redirectHome(c)
	}
	s.SetEmail(c.FormValue("email"))
	s.SetCode(c.FormValue("otp"))
	return h.done(c, "verify otp", s.Submit())
}

// ResendOTP - POST /verify/resend
func (h *WebHandler) ResendOTP(c *fiber.Ctx) error {
	s := h.flowFor(c).VerifyOTP()
	if s == nil {
		return redirectHome(c)
	}
	s.SetEmail(c.FormValue("email"))
	return h.done(c, "resend otp", s.Resend())
}

// VerifyToLogin - POST /verify/login
func (h *WebHandler) VerifyToLogin(c *fiber.Ctx) error {
	if s := h.flowFor(c).VerifyOTP(); s != nil {
		return h.done(c, "go to login", s.GoToLogin())
	}
	return redirectHome(c)
}

// VerifyBack - POST /verify/back
func (h *WebHandler) VerifyBack(c *fiber.Ctx) error {
	if s := h.flowFor(c).VerifyOTP(); s != nil {
		return h.done(c, "back to signup", s.BackToSignup())
	}
	return redirectHome(c)
}

// Login - POST /login
func (h *WebHandler) Login(c *fiber.Ctx) error {
	s := h.flowFor(c).Login()
	if s == nil {
		return redirectHome(c)
	}
	s.SetEmail(c.FormValue("email"))
	s.SetPassword(c.FormValue("password"))
	return h.done(c, "login", s.Submit())
}

// LoginToSignup - POST /login/signup
func (h *WebHandler) LoginToSignup(c *fiber.Ctx) error {
	if s := h.flowFor(c).Login(); s != nil {
		return h.done(c, "go to signup", s.GoToSignup())
	}
	return redirectHome(c)
}

// Refresh - POST /dashboard/refresh
func (h *WebHandler) Refresh(c *fiber.Ctx) error {
	if s := h.flowFor(c).Dashboard(); s != nil {
		return h.done(c, "refresh profile", s.Refresh())
	}
	return redirectHome(c)
}

// Logout - POST /dashboard/logout
func (h *WebHandler) Logout(c *fiber.Ctx) error {
	if s := h.flowFor(c).Dashboard(); s != nil {
		return h.done(c, "logout", s.Logout())
	}
	return redirectHome(c)
}

// done logs the action result and redirects back to the page. Errors are
// already reflected in the screen state.
func (h *WebHandler) done(c *fiber.Ctx, action string, err error) error {
	var verr domain.ValidationErrors
	switch {
	case err == nil, errors.As(err, &verr):
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrBusy):
		h.log.WithError(err).WithField("action", action).Debug("Stale form submission")
	default:
		h.log.WithError(err).WithField("action", action).Warn("Action failed")
	}
	return redirectHome(c)
}
