package authstub

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	tok, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d", id)
	}
}

func TestTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("secret")
	tok, _ := issuer.Issue(42)

	if _, err := NewTokenIssuer("other").Parse(tok); err == nil {
		t.Error("token accepted with the wrong secret")
	}

	late := NewTokenIssuer("secret")
	late.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }
	if _, err := late.Parse(tok); err == nil {
		t.Error("expired token accepted")
	}

	if _, err := issuer.Parse("not-a-jwt"); err == nil {
		t.Error("garbage accepted")
	}
}
