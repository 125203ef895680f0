package rag

import "testing"

func TestAvailability_String(t *testing.T) {
	if Ready.String() != "ready" {
		t.Errorf("Ready.String() = %q", Ready.String())
	}
	if Unavailable.String() != "unavailable" {
		t.Errorf("Unavailable.String() = %q", Unavailable.String())
	}
}
