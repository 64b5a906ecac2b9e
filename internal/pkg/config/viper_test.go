package config

import (
	"testing"
	"time"
)

const sample = `
app:
  name: gosocial
otp:
  ttl_seconds: 120
  lockout_minutes: 5
auth:
  prefix:
    user: Bearer
    admin: Admin
app_cors: "http://a.test, ,http://b.test"
secret: aGVsbG8=
`

func TestViperFromBytes_Getters(t *testing.T) {
	// Arrange
	c, err := NewViperFromBytes("yaml", []byte(sample))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	// Act & Assert
	if got := c.GetString("app.name"); got != "gosocial" {
		t.Fatalf("GetString() = %q", got)
	}
	if got := c.GetSecond("otp.ttl_seconds"); got != 2*time.Minute {
		t.Fatalf("GetSecond() = %v", got)
	}
	if got := c.GetMinute("otp.lockout_minutes"); got != 5*time.Minute {
		t.Fatalf("GetMinute() = %v", got)
	}
	if got := c.GetArray("app_cors"); len(got) != 2 || got[1] != "http://b.test" {
		t.Fatalf("GetArray() = %#v", got)
	}
	if got := string(c.GetBinary("secret")); got != "hello" {
		t.Fatalf("GetBinary() = %q", got)
	}
	if got := c.GetArray("missing"); got != nil {
		t.Fatalf("GetArray(missing) = %#v, want nil", got)
	}
}

func TestViperFromBytes_EnvOverride(t *testing.T) {
	// Arrange
	t.Setenv("AUTH_PREFIX_ADMIN", "Root")
	c, err := NewViperFromBytes("yaml", []byte(sample))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	// Act
	got := c.GetString("auth.prefix.admin")

	// Assert
	if got != "Root" {
		t.Fatalf("GetString() = %q, want env override", got)
	}
}

func TestViperFromBytes_EmptyType(t *testing.T) {
	if _, err := NewViperFromBytes(" ", nil); err != ErrConfigType {
		t.Fatalf("error = %v, want ErrConfigType", err)
	}
}
