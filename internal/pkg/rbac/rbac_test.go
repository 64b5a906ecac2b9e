package rbac

import (
	"errors"
	"testing"
)

func TestEnforcer(t *testing.T) {
	// Arrange
	e, err := New(DefaultPolicies(), []Grouping{{Member: "superadmin", Role: "admin"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		sub, obj, act string
		want          bool
	}{
		{"admin", "post", "freeze_any", true},
		{"admin", "comment", "freeze_any", true},
		{"superadmin", "post", "freeze_any", true},
		{"user", "post", "freeze_any", false},
		{"admin", "post", "delete_any", false},
	}

	for _, tt := range tests {
		t.Run(tt.sub+"/"+tt.obj+"/"+tt.act, func(t *testing.T) {
			// Act
			got, err := e.Enforce(tt.sub, tt.obj, tt.act)

			// Assert
			if err != nil {
				t.Fatalf("Enforce: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Enforce(%s, %s, %s) = %v, want %v", tt.sub, tt.obj, tt.act, got, tt.want)
			}
		})
	}
}

func TestEnforcerIsReadOnly(t *testing.T) {
	// Arrange
	e, err := New(DefaultPolicies(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Act
	err = e.SavePolicy()

	// Assert
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("SavePolicy() = %v, want ErrReadOnly", err)
	}
}

func TestParsePolicies(t *testing.T) {
	// Act
	got, err := ParsePolicies([]string{"admin:post:freeze_any", "moderator:*:*"})
	_, badErr := ParsePolicies([]string{"admin:post"})
	_, badGroup := ParseGroupings([]string{"a:b:c"})

	// Assert
	if err != nil || len(got) != 2 || got[1].Object != "*" {
		t.Fatalf("ParsePolicies = %+v, %v", got, err)
	}
	if !errors.Is(badErr, ErrPolicyFormat) {
		t.Fatalf("bad policy err = %v", badErr)
	}
	if !errors.Is(badGroup, ErrGroupingShape) {
		t.Fatalf("bad grouping err = %v", badGroup)
	}
}
