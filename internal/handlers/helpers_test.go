package handlers

import "testing"

func TestTruncatePreview(t *testing.T) {
	cases := []struct {
		in       string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this one is definitely too long", 10, "this one i..."},
		{"päääker face", 5, "päääk..."},
	}
	for _, tc := range cases {
		if got := truncatePreview(tc.in, tc.max); got != tc.expected {
			t.Errorf("truncatePreview(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.expected)
		}
	}
}
