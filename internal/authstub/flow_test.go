package authstub

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"authflow/internal/domain"
	"authflow/internal/flow"
	"authflow/internal/service"

	"github.com/sirupsen/logrus"
)

func (s *OTPStore) pending(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.codes[email]; ok {
		return e.code
	}
	return ""
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestFullFlowAgainstStub(t *testing.T) {
	stub := newTestStub(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go stub.app.Listener(ln)
	t.Cleanup(func() { stub.app.Shutdown() })

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	client := service.NewAuthClient("http://"+ln.Addr().String(), 5*time.Second, log)
	store := service.NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	c := flow.NewCoordinator(client, service.NewSession(store, log), log, flow.WithRedirectDelay(10*time.Millisecond))
	defer c.Close()

	signup := c.Signup()
	signup.SetUsername("alice")
	signup.SetEmail("alice@example.com")
	signup.SetPassword("longenough")
	if err := signup.Submit(); err != nil {
		t.Fatalf("signup: %v", err)
	}

	verify := c.VerifyOTP()
	if verify == nil {
		t.Fatalf("screen after signup = %s, view %+v", c.Screen(), signup.View())
	}
	verify.SetCode(stub.otps.pending("alice@example.com"))
	if err := verify.Submit(); err != nil {
		t.Fatalf("verify: %v (%+v)", err, verify.View())
	}
	waitFor(t, "login screen", func() bool { return c.Screen() == domain.ScreenLogin })

	login := c.Login()
	login.SetEmail("alice@example.com")
	login.SetPassword("longenough")
	if err := login.Submit(); err != nil {
		t.Fatalf("login: %v (%+v)", err, login.View())
	}

	dash := c.Dashboard()
	if dash == nil {
		t.Fatalf("screen after login = %s", c.Screen())
	}
	waitFor(t, "profile", func() bool { return !dash.View().Loading })

	v := dash.View()
	if v.Error != "" || v.Profile == nil {
		t.Fatalf("dashboard = %+v", v)
	}
	if v.Profile.Username != "alice" || v.User.Email != "alice@example.com" {
		t.Errorf("profile = %+v, user = %+v", v.Profile, v.User)
	}

	if err := dash.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if tok, _ := store.Load(); tok != "" {
		t.Errorf("token left after logout")
	}

	if err := client.ResetPassword(context.Background(), "alice@example.com", "another-pass"); err != nil {
		t.Errorf("reset password: %v", err)
	}
}
