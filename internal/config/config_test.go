package config

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoadClientDefaults(t *testing.T) {
	t.Setenv("AUTH_API_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("AUTH_TOKEN_FILE", "/tmp/authflow-token")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	if cfg.TokenFile != "/tmp/authflow-token" {
		t.Errorf("TokenFile = %q", cfg.TokenFile)
	}
}

func TestLoadClientTrimsURL(t *testing.T) {
	t.Setenv("AUTH_API_URL", "https://auth.example.com/")
	t.Setenv("AUTH_TOKEN_FILE", "/tmp/x")

	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.APIURL != "https://auth.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
}

func TestLoadClientBadTimeout(t *testing.T) {
	t.Setenv("AUTH_TOKEN_FILE", "/tmp/x")
	for _, raw := range []string{"soon", "-1s", "0s"} {
		t.Setenv("HTTP_TIMEOUT", raw)
		if _, err := LoadClient(); err == nil {
			t.Errorf("HTTP_TIMEOUT=%q: expected error", raw)
		}
	}
}

func TestLoadStubRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadStub(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OTP_TTL", "2m")
	cfg, err := LoadStub()
	if err != nil {
		t.Fatalf("LoadStub: %v", err)
	}
	if cfg.OTPTTL != 2*time.Minute || cfg.Addr != ":8080" {
		t.Errorf("unexpected stub config: %+v", cfg)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger("warn", &buf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	if _, err := NewLogger("loud", &buf); err == nil {
		t.Error("expected error for unknown level")
	}
}
