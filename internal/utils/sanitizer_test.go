package utils

import "testing"

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded   out  ", "padded out"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>safe", "safe"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeString(tt.in); got != tt.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"alice smith", "alice_smith"},
		{"al!ce@", "alce"},
		{"this_username_is_way_too_long_to_keep_around", "this_username_is_way_too_long_"},
	}
	for _, tt := range tests {
		if got := SanitizeUsername(tt.in); got != tt.want {
			t.Errorf("SanitizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeSearchQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"daft punk", "daft punk"},
		{`"discovery" (2001)`, "discovery 2001"},
		{"  rock &  roll ", "rock roll"},
	}
	for _, tt := range tests {
		if got := SanitizeSearchQuery(tt.in); got != tt.want {
			t.Errorf("SanitizeSearchQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
