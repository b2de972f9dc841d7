package ui

import "testing"

func TestPaint(t *testing.T) {
	saved := Enabled
	defer func() { Enabled = saved }()

	Enabled = true
	if got := Success("ok"); got != ColorGreen+"ok"+ColorReset {
		t.Errorf("Expected green text, got %q", got)
	}

	Enabled = false
	if got := Error("failed"); got != "failed" {
		t.Errorf("Expected plain text, got %q", got)
	}
}
