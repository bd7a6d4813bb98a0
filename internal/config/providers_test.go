package config

import "testing"

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"your_token_here", true},
		{"YOUR-SERVER-URL", true},
		{"changeme", true},
		{"https://media.example.com", true},
		{"xxxxxxxx", true},
		{"https://dav.mybox.net/music", false},
		{"s3cr3t-p4ss", false},
		{"admin", false},
	}

	for _, tt := range tests {
		if got := IsPlaceholder(tt.value); got != tt.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestHomeMediaConfigured(t *testing.T) {
	cfg := &Config{}
	cfg.Providers.HomeMedia.BaseURL = "http://plex.local:32400"
	cfg.Providers.HomeMedia.Token = "real-token"
	if !cfg.HomeMediaConfigured() {
		t.Error("fully configured home media reported as unconfigured")
	}

	cfg.Providers.HomeMedia.Token = "your_token_here"
	if cfg.HomeMediaConfigured() {
		t.Error("placeholder token must leave home media unconfigured")
	}
}

func TestFileIndexConfigured(t *testing.T) {
	cfg := &Config{}
	cfg.Providers.FileIndex.BaseURL = "https://dav.mybox.net"
	cfg.Providers.FileIndex.Account = "listener"
	cfg.Providers.FileIndex.Password = "hunter2"
	cfg.Providers.FileIndex.RootPath = "/music"
	if !cfg.FileIndexConfigured() {
		t.Error("fully configured file index reported as unconfigured")
	}

	cfg.Providers.FileIndex.Password = ""
	if cfg.FileIndexConfigured() {
		t.Error("missing password must leave file index unconfigured")
	}
}
