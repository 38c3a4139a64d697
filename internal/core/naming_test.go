package core

import "testing"

func TestFileName(t *testing.T) {
	tests := []struct {
		label, subject, variant string
		expected                string
	}{
		{"Demo", "MainScreen", "debug", "Demo_MainScreen_debug.mtx"},
		{"My/App", "Main", "debug", "My_App_Main_debug.mtx"},
		{`C:\App`, "Main", "release", "C:_App_Main_release.mtx"},
		{"Cafe\u0301", "Main", "debug", "Caf\u00e9_Main_debug.mtx"},
		{"Demo", "Main", "", "Demo_Main_.mtx"},
	}

	for _, tt := range tests {
		if got := FileName(tt.label, tt.subject, tt.variant); got != tt.expected {
			t.Errorf("FileName(%q, %q, %q) = %q, expected %q", tt.label, tt.subject, tt.variant, got, tt.expected)
		}
	}
}

type settingsActivity struct{}

func TestSimpleTypeName(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{&settingsActivity{}, "settingsActivity"},
		{settingsActivity{}, "settingsActivity"},
		{&screen{}, "screen"},
		{nil, "nil"},
		{[]int{}, "[]int"},
	}

	for _, tt := range tests {
		if got := SimpleTypeName(tt.value); got != tt.expected {
			t.Errorf("SimpleTypeName(%T) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}
