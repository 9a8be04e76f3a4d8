package tui

import (
	"fmt"
	"strings"

	"authflow/internal/domain"
	"authflow/internal/flow"

	"github.com/jroimartin/gocui"
	"github.com/sirupsen/logrus"
)

// field - one editable input of a screen
type field struct {
	name  string
	title string
	mask  bool
}

var screenFields = map[domain.Screen][]field{
	domain.ScreenSignup: {
		{name: "username", title: "Username"},
		{name: "email", title: "Email"},
		{name: "password", title: "Password", mask: true},
	},
	domain.ScreenVerifyOTP: {
		{name: "otp_email", title: "Email"},
		{name: "otp_code", title: "OTP"},
	},
	domain.ScreenLogin: {
		{name: "login_email", title: "Email"},
		{name: "login_password", title: "Password", mask: true},
	},
}

var mainViews = []string{
	"username", "email", "password",
	"otp_email", "otp_code",
	"login_email", "login_password",
	"status", "dashboard",
}

// App drives a flow from the terminal
type App struct {
	flow *flow.Coordinator
	log  logrus.FieldLogger
	g    *gocui.Gui

	shown domain.Screen
	built bool
	focus int
}

func NewApp(f *flow.Coordinator, log logrus.FieldLogger) *App {
	return &App{flow: f, log: log}
}

func (a *App) Run() error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return err
	}
	defer g.Close()
	a.g = g

	g.Cursor = true
	g.SetManagerFunc(a.layout)

	if err := a.bindKeys(); err != nil {
		return err
	}

	// redraw from any goroutine
	a.flow.OnChange(func() {
		g.Update(func(*gocui.Gui) error { return nil })
	})

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (a *App) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView("header", 0, 0, maxX-1, 2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
	}
	a.renderHeader()

	if v, err := g.SetView("footer", 0, maxY-2, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
	}

	screen := a.flow.Screen()
	if !a.built || screen != a.shown {
		a.clearMainViews()
		a.shown = screen
		a.built = true
		a.focus = 0
	}

	var err error
	if screen == domain.ScreenDashboard {
		err = a.layoutDashboard(maxX, maxY)
	} else {
		err = a.layoutForm(screen, maxX, maxY)
	}
	if err != nil {
		return err
	}
	a.renderFooter()
	return nil
}

func (a *App) layoutForm(screen domain.Screen, maxX, maxY int) error {
	fields := screenFields[screen]
	top := 3
	for i, f := range fields {
		v, err := a.g.SetView(f.name, 0, top, maxX-1, top+2)
		if err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
			v.Title = f.title
			v.Editable = true
			v.Editor = gocui.DefaultEditor
			if f.mask {
				v.Mask = '*'
			}
			fmt.Fprint(v, a.initialValue(f.name))
			v.SetCursor(len(viewText(v)), 0)
			if i == a.focus {
				if _, err := a.g.SetCurrentView(f.name); err != nil {
					return err
				}
			}
		}
		top += 3
	}

	v, err := a.g.SetView("status", 0, top, maxX-1, maxY-3)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Wrap = true
		v.Frame = false
	}
	v.Clear()
	fmt.Fprint(v, a.statusText(screen))
	return nil
}

func (a *App) layoutDashboard(maxX, maxY int) error {
	v, err := a.g.SetView("dashboard", 0, 3, maxX-1, maxY-3)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Dashboard"
		v.Wrap = true
		if _, err := a.g.SetCurrentView("dashboard"); err != nil {
			return err
		}
	}
	v.Clear()
	if d := a.flow.Dashboard(); d != nil {
		fmt.Fprint(v, dashboardText(d.View()))
	}
	return nil
}

// initialValue pre-fills a freshly created input from the screen state.
func (a *App) initialValue(name string) string {
	switch name {
	case "username", "email":
		if s := a.flow.Signup(); s != nil {
			form := s.View().Form
			if name == "username" {
				return form.Username
			}
			return form.Email
		}
	case "otp_email":
		if s := a.flow.VerifyOTP(); s != nil {
			return s.View().Email
		}
	case "login_email":
		if s := a.flow.Login(); s != nil {
			return s.View().Form.Email
		}
	}
	return ""
}

func (a *App) statusText(screen domain.Screen) string {
	switch screen {
	case domain.ScreenSignup:
		if s := a.flow.Signup(); s != nil {
			return signupText(s.View())
		}
	case domain.ScreenVerifyOTP:
		if s := a.flow.VerifyOTP(); s != nil {
			return verifyText(s.View())
		}
	case domain.ScreenLogin:
		if s := a.flow.Login(); s != nil {
			return loginText(s.View())
		}
	}
	return ""
}

func (a *App) clearMainViews() {
	for _, n := range mainViews {
		if v, err := a.g.View(n); err == nil {
			v.Clear()
			a.g.DeleteView(n)
		}
	}
}

func (a *App) renderHeader() {
	if v, err := a.g.View("header"); err == nil {
		v.Clear()
		fmt.Fprintf(v, "authflow  -  %s", screenTitle(a.flow.Screen()))
	}
}

func (a *App) renderFooter() {
	if v, err := a.g.View("footer"); err == nil {
		v.Clear()
		fmt.Fprint(v, footerHelp(a.flow.Screen()))
	}
}

func (a *App) bindKeys() error {
	g := a.g
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, a.quit); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyTab, gocui.ModNone, a.nextField); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyCtrlL, gocui.ModNone, a.goToLogin); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyCtrlS, gocui.ModNone, a.goToSignup); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyCtrlR, gocui.ModNone, a.resendOrRefresh); err != nil {
		return err
	}
	if err := g.SetKeybinding("", gocui.KeyCtrlO, gocui.ModNone, a.logout); err != nil {
		return err
	}

	for _, fields := range screenFields {
		for _, f := range fields {
			if err := g.SetKeybinding(f.name, gocui.KeyEnter, gocui.ModNone, a.submit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) quit(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }

func (a *App) nextField(*gocui.Gui, *gocui.View) error {
	fields := screenFields[a.shown]
	if len(fields) == 0 {
		return nil
	}
	a.focus = (a.focus + 1) % len(fields)
	_, err := a.g.SetCurrentView(fields[a.focus].name)
	return err
}

// value reads the text of an input view
func (a *App) value(name string) string {
	v, err := a.g.View(name)
	if err != nil {
		return ""
	}
	return inputValue(viewText(v), v.Mask != 0)
}

// inputValue trims plain inputs; masked ones are passwords and stay as typed.
func inputValue(raw string, masked bool) string {
	if masked {
		return raw
	}
	return strings.TrimSpace(raw)
}

// submit copies the inputs into the active screen and runs its submit off
// the gui goroutine.
func (a *App) submit(*gocui.Gui, *gocui.View) error {
	switch a.flow.Screen() {
	case domain.ScreenSignup:
		if s := a.flow.Signup(); s != nil {
			s.SetUsername(a.value("username"))
			s.SetEmail(a.value("email"))
			s.SetPassword(a.value("password"))
			a.background("signup", s.Submit)
		}
	case domain.ScreenVerifyOTP:
		if s := a.flow.VerifyOTP(); s != nil {
			s.SetEmail(a.value("otp_email"))
			s.SetCode(a.value("otp_code"))
			a.background("verify otp", s.Submit)
		}
	case domain.ScreenLogin:
		if s := a.flow.Login(); s != nil {
			s.SetEmail(a.value("login_email"))
			s.SetPassword(a.value("login_password"))
			a.background("login", s.Submit)
		}
	}
	return nil
}

func (a *App) goToLogin(*gocui.Gui, *gocui.View) error {
	if s := a.flow.Signup(); s != nil {
		a.background("go to login", s.GoToLogin)
	} else if s := a.flow.VerifyOTP(); s != nil {
		a.background("go to login", s.GoToLogin)
	}
	return nil
}

func (a *App) goToSignup(*gocui.Gui, *gocui.View) error {
	if s := a.flow.Login(); s != nil {
		a.background("go to signup", s.GoToSignup)
	} else if s := a.flow.VerifyOTP(); s != nil {
		a.background("back to signup", s.BackToSignup)
	}
	return nil
}

func (a *App) resendOrRefresh(*gocui.Gui, *gocui.View) error {
	if s := a.flow.VerifyOTP(); s != nil {
		s.SetEmail(a.value("otp_email"))
		a.background("resend otp", s.Resend)
	} else if d := a.flow.Dashboard(); d != nil {
		a.background("refresh profile", d.Refresh)
	}
	return nil
}

func (a *App) logout(*gocui.Gui, *gocui.View) error {
	if d := a.flow.Dashboard(); d != nil {
		a.background("logout", d.Logout)
	}
	return nil
}

// background runs fn outside the gui loop; the screen state carries any
// user-facing error, so only the log sees it here.
func (a *App) background(action string, fn func() error) {
	go func() {
		if err := fn(); err != nil {
			a.log.WithError(err).WithField("action", action).Debug("Action finished with error")
		}
	}()
}

func viewText(v *gocui.View) string {
	// gocui includes a trailing newline
	return strings.TrimSuffix(v.Buffer(), "\n")
}
