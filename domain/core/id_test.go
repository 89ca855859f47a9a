package core

import (
	"errors"
	"testing"
)

// TestNewLoadIDUniqueness tests that NewLoadID generates unique identifiers
func TestNewLoadIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[LoadID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewLoadID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

// TestLoadIDShort tests the sidebar short form
func TestLoadIDShort(t *testing.T) {
	tests := []struct {
		input    LoadID
		expected string
	}{
		{"abc", "abc"},
		{"0190f3a2-7b1c-7c1e-9a1b-1234567890ab", "567890ab"},
		{"", ""},
	}

	for _, test := range tests {
		if got := test.input.Short(); got != test.expected {
			t.Errorf("Short(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

// TestDomainErrors tests sentinel wrapping
func TestDomainErrors(t *testing.T) {
	err := NewMissingReferenceError(3, "polo vazio")
	if !errors.Is(err, ErrMissingReference) {
		t.Error("Expected missing reference error to match ErrMissingReference")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Missing reference is not a not-found error")
	}
	var ref *MissingReferenceError
	if !errors.As(err, &ref) || ref.Row != 3 || ref.Reason != "polo vazio" {
		t.Errorf("Expected row 3 with reason, got %v", err)
	}

	colErr := NewColumnNotFoundError("POLO", "totais")
	if !errors.Is(colErr, ErrColumnNotFound) || !errors.Is(colErr, ErrNotFound) {
		t.Errorf("Expected column error to wrap ErrColumnNotFound and ErrNotFound, got %v", colErr)
	}
}
