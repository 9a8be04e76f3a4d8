package domain

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a@b.co", "first.last+tag@sub.domain.org"}
	invalid := []string{
		"", "alice", "alice@", "@example.com", "alice@example", "al ice@example.com", "alice@exa mple.com", "a@b@c.com",
		"alice\u00a0x@example.com", "alice\vx@example.com", "alice@exa\u2003mple.com",
		"alice\u3000@example.com", "alice@example.\ufeffcom", "alice\u0085@example.com", "alice@ex\u2028ample.com",
	}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true", e)
		}
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		form     SignupForm
		wantMail string
		wantPass string
	}{
		{"valid", SignupForm{"alice", "alice@example.com", "longenough"}, "", ""},
		{"bad email", SignupForm{"alice", "alice.example.com", "longenough"}, MsgInvalidEmail, ""},
		{"short password", SignupForm{"alice", "alice@example.com", "short"}, "", MsgPasswordTooShort},
		{"seven chars", SignupForm{"alice", "alice@example.com", "1234567"}, "", MsgPasswordTooShort},
		{"eight chars", SignupForm{"alice", "alice@example.com", "12345678"}, "", ""},
		{"both", SignupForm{"", "", ""}, MsgInvalidEmail, MsgPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSignup(tt.form)
			if got.Email != tt.wantMail || got.Password != tt.wantPass {
				t.Errorf("ValidateSignup = %+v", got)
			}
			if got.Empty() != (tt.wantMail == "" && tt.wantPass == "") {
				t.Errorf("Empty() = %v", got.Empty())
			}
		})
	}
}

func TestOTPSessionSetCodeTruncates(t *testing.T) {
	var s OTPSession
	s.SetCode("1234567890")
	if s.Code != "123456" {
		t.Errorf("Code = %q", s.Code)
	}
	s.SetCode("12")
	if s.Code != "12" {
		t.Errorf("Code = %q", s.Code)
	}
}
