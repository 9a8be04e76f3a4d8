package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestLoginResponseIdentity(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		wantID  int64
	}{
		{"nested", `{"token":"t","user":{"id":4,"username":"alice","email":"a@b.co"}}`, false, 4},
		{"flat", `{"message":"Login successful","user_id":9,"username":"bob","token":"t"}`, false, 9},
		{"no token", `{"user":{"id":4,"username":"alice"}}`, true, 0},
		{"blank token", `{"token":"  ","user_id":4,"username":"alice"}`, true, 0},
		{"no id", `{"token":"t","username":"alice"}`, true, 0},
		{"no username", `{"token":"t","user":{"id":4}}`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp LoginResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			token, user, err := resp.Identity()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Identity: %v", err)
			}
			if token != "t" || user.ID != tt.wantID {
				t.Errorf("got %q %+v", token, user)
			}
		})
	}
}

func TestTimestampFormats(t *testing.T) {
	for _, raw := range []string{
		`"2024-05-01T10:00:00Z"`,
		`"2024-05-01T10:00:00.123456+02:00"`,
		`"2024-05-01T10:00:00.5"`,
		`"2024-05-01 10:00:00"`,
	} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Errorf("%s: %v", raw, err)
			continue
		}
		if ts.Year() != 2024 || ts.Month() != 5 || ts.Day() != 1 {
			t.Errorf("%s parsed as %s", raw, ts.Time)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected error for unsupported format")
	}
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil || !ts.IsZero() {
		t.Errorf("null: %v %v", err, ts.Time)
	}
}

func TestErrorClassification(t *testing.T) {
	apiErr := error(&APIError{Status: 401, Message: "Invalid email or password"})
	if ServerMessage(apiErr, "fallback") != "Invalid email or password" {
		t.Error("server message not surfaced")
	}
	if ServerMessage(&APIError{Status: 500}, "fallback") != "fallback" {
		t.Error("fallback not used for empty message")
	}
	if IsTransport(apiErr) {
		t.Error("APIError classified as transport")
	}

	tErr := &TransportError{Op: "login", Err: errors.New("dial tcp: refused")}
	if !IsTransport(tErr) || ServerMessage(tErr, "fallback") != "fallback" {
		t.Error("transport error misclassified")
	}
}
