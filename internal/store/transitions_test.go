package store

import "testing"

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{"confirm", "pending", true},
		{"confirm", "confirmed", false},
		{"confirm", "cancelled", false},
		{"unconfirm", "confirmed", true},
		{"unconfirm", "pending", false},
		{"cancel", "pending", true},
		{"cancel", "confirmed", true},
		{"cancel", "cancelled", false},
		{"cancel", "completed", false},
		{"complete", "pending", true},
		{"complete", "confirmed", true},
		{"complete", "completed", false},
		{"complete", "cancelled", false},
		{"unknown", "pending", false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestTargetStatusCoversEveryAction(t *testing.T) {
	for action := range transitionMap {
		if _, ok := TargetStatus[action]; !ok {
			t.Fatalf("action %q has no target status", action)
		}
	}
}
