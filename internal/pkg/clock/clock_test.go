package clock

import (
	"testing"
	"time"
)

func TestManual_Advance(t *testing.T) {
	// Arrange
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := NewManual(start)

	// Act
	c.Advance(2 * time.Minute)

	// Assert
	if got := c.Now(); !got.Equal(start.Add(2 * time.Minute)) {
		t.Fatalf("Now() = %v, want %v", got, start.Add(2*time.Minute))
	}
}

func TestSystem_NowIsUTC(t *testing.T) {
	if loc := New().Now().Location(); loc != time.UTC {
		t.Fatalf("location = %v, want UTC", loc)
	}
}
