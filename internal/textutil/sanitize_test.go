package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Atul Kadam", "Atul Kadam"},
		{"a/b\\c:d", "a-b-c-d"},
		{"what?*", "what-"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.input); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Atul Kadam", "Atul_Kadam"},
		{"  Atul   Kadam  ", "Atul_Kadam"},
		{"अतुल कदम", "अतुल_कदम"},
		{"", "unnamed"},
		{"???", "unnamed"},
	}
	for _, tt := range tests {
		if got := SafeName(tt.input); got != tt.want {
			t.Errorf("SafeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
