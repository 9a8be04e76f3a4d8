package delivery

import (
	"bytes"
	"html/template"
	"time"

	"authflow/internal/domain"
	"authflow/internal/flow"
)

// page - data handed to the templates
type page struct {
	Screen    string              `json:"screen"`
	Refresh   bool                `json:"refresh"`
	Signup    *flow.SignupView    `json:"signup,omitempty"`
	Verify    *flow.VerifyOTPView `json:"verify_otp,omitempty"`
	Login     *flow.LoginView     `json:"login,omitempty"`
	Dashboard *flow.DashboardView `json:"dashboard,omitempty"`
}

// redacted drops typed passwords so they are never echoed back.
func (p page) redacted() page {
	if p.Signup != nil {
		p.Signup.Form.Password = ""
	}
	if p.Login != nil {
		p.Login.Form.Password = ""
	}
	return p
}

var pageTemplate = template.Must(template.New("layout").Funcs(template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("Jan 2, 2006 15:04")
	},
}).Parse(layoutHTML))

func init() {
	template.Must(pageTemplate.Parse(screensHTML))
}

// buildPage snapshots the active screen of f.
func buildPage(f *flow.Coordinator) page {
	p := page{Screen: f.Screen().String()}

	switch f.Screen() {
	case domain.ScreenSignup:
		if s := f.Signup(); s != nil {
			v := s.View()
			p.Signup = &v
			p.Refresh = v.Loading
		}
	case domain.ScreenVerifyOTP:
		if s := f.VerifyOTP(); s != nil {
			v := s.View()
			p.Verify = &v
			p.Refresh = v.Redirecting || v.Submitting
		}
	case domain.ScreenLogin:
		if s := f.Login(); s != nil {
			v := s.View()
			p.Login = &v
		}
	case domain.ScreenDashboard:
		if s := f.Dashboard(); s != nil {
			v := s.View()
			p.Dashboard = &v
			p.Refresh = v.Loading
		}
	}
	return p
}

func renderPage(p page) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "layout", p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const layoutHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{if .Refresh}}<meta http-equiv="refresh" content="1">{{end}}
<title>authflow</title>
<style>
body { font-family: sans-serif; background: #f3f4f6; display: flex; justify-content: center; padding-top: 4rem; }
.card { background: #fff; padding: 2rem; border-radius: 8px; width: 24rem; box-shadow: 0 1px 4px rgba(0,0,0,.1); }
label { display: block; margin-top: .75rem; }
input { width: 100%; padding: .4rem; box-sizing: border-box; }
button { margin-top: 1rem; padding: .5rem 1rem; }
.link { background: none; border: none; color: #2563eb; cursor: pointer; padding: 0; }
.error { color: #b91c1c; }
.success { color: #15803d; }
.field-error { color: #b91c1c; font-size: .85rem; }
dt { font-weight: bold; margin-top: .5rem; }
</style>
</head>
<body>
<div class="card" id="{{.Screen}}">
{{if .Signup}}{{template "signup" .Signup}}{{end}}
{{if .Verify}}{{template "verify" .Verify}}{{end}}
{{if .Login}}{{template "login" .Login}}{{end}}
{{if .Dashboard}}{{template "dashboard" .Dashboard}}{{end}}
</div>
</body>
</html>`

const screensHTML = `
{{define "signup"}}
<h1>Create Account</h1>
{{if .Success}}<p class="success">{{.Success}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/signup">
<label>Username <input name="username" value="{{.Form.Username}}" required></label>
<label>Email <input name="email" type="email" value="{{.Form.Email}}" required></label>
{{if .Errors.Email}}<span class="field-error">{{.Errors.Email}}</span>{{end}}
<label>Password <input name="password" type="password" required></label>
{{if .Errors.Password}}<span class="field-error">{{.Errors.Password}}</span>{{end}}
<button type="submit" {{if .Loading}}disabled{{end}}>{{if .Loading}}Signing up...{{else}}Sign Up{{end}}</button>
</form>
<form method="post" action="/signup/login">Already have an account? <button class="link" type="submit">Login</button></form>
{{end}}

{{define "verify"}}
<h1>Verify OTP</h1>
{{if .Message}}<p class="success">{{.Message}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/verify">
<label>Email <input name="email" type="email" value="{{.Email}}"></label>
<label>OTP <input name="otp" value="{{.Code}}" maxlength="6" autocomplete="one-time-code"></label>
<button type="submit" {{if or .Submitting .Redirecting}}disabled{{end}}>{{if .Submitting}}Verifying...{{else}}Verify OTP{{end}}</button>
</form>
<form method="post" action="/verify/resend"><input type="hidden" name="email" value="{{.Email}}">
<button class="link" type="submit" {{if .Resending}}disabled{{end}}>{{if .Resending}}Sending...{{else}}Resend OTP{{end}}</button></form>
<form method="post" action="/verify/login"><button class="link" type="submit">Go to Login</button></form>
<form method="post" action="/verify/back"><button class="link" type="submit">Back to Signup</button></form>
{{end}}

{{define "login"}}
<h1>Login</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
<label>Email <input name="email" type="email" value="{{.Form.Email}}"></label>
<label>Password <input name="password" type="password"></label>
<button type="submit" {{if .Loading}}disabled{{end}}>{{if .Loading}}Logging in...{{else}}Login{{end}}</button>
</form>
<form method="post" action="/login/signup">Don't have an account? <button class="link" type="submit">Sign up</button></form>
{{end}}

{{define "dashboard"}}
<h1>Dashboard</h1>
<p>Welcome back, {{.User.Username}}!</p>
{{if .Loading}}<p>Loading profile...</p>
{{else if .Error}}<p class="error">{{.Error}}</p>
<form method="post" action="/dashboard/refresh"><button type="submit">Retry</button></form>
{{else if .Profile}}
<dl>
<dt>Username</dt><dd>{{.Profile.Username}}</dd>
<dt>Email</dt><dd>{{.Profile.Email}}</dd>
<dt>Member since</dt><dd>{{date .Profile.CreatedAt.Time}}</dd>
<dt>Last updated</dt><dd>{{date .Profile.UpdatedAt.Time}}</dd>
</dl>
<form method="post" action="/dashboard/refresh"><button type="submit">Refresh</button></form>
{{end}}
<h2>Account</h2>
<dl>
<dt>User ID</dt><dd>{{.User.ID}}</dd>
<dt>Account status</dt><dd>{{.AccountStatus}}</dd>
<dt>Email status</dt><dd>{{.EmailStatus}}</dd>
</dl>
<h2>Recent activity</h2>
<ul>{{range .Activity}}<li>{{.Label}} - {{datetime .At}}</li>{{end}}</ul>
<form method="post" action="/dashboard/logout"><button type="submit">Logout</button></form>
{{end}}
`
