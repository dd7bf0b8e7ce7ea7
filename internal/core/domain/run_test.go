package domain

import "testing"

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	if !ValidRunID(a) || !ValidRunID(b) {
		t.Fatalf("NewRunID() produced invalid IDs %q, %q", a, b)
	}
	if a == b {
		t.Error("NewRunID() should not repeat")
	}
	if len(a) != 26 {
		t.Errorf("len(NewRunID()) = %d, want 26", len(a))
	}
}

func TestValidRunID(t *testing.T) {
	if ValidRunID("not-a-ulid") {
		t.Error("ValidRunID accepted garbage")
	}
}
