package validation

import "testing"

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"uuid v4", "9b2f6a1c-3d4e-4f5a-8b6c-7d8e9f0a1b2c", true},
		{"uppercase rejected", "9B2F6A1C-3D4E-4F5A-8B6C-7D8E9F0A1B2C", false},
		{"too short", "9b2f6a1c-3d4e", false},
		{"empty", "", false},
		{"path traversal", "../../etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateToken(tt.token); got != tt.want {
				t.Errorf("ValidateToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"https", "https://www.aviasales.com/search/LON0101MIL0202", true},
		{"http", "http://example.com/path?q=1", true},
		{"javascript scheme", "javascript:alert(1)", false},
		{"data scheme", "data:text/html,hi", false},
		{"no host", "https://", false},
		{"empty", "", false},
		{"relative", "/search/flights", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := ValidateURL(tt.url)
			if got != tt.want {
				t.Errorf("ValidateURL(%q) = %v (%s), want %v", tt.url, got, msg, tt.want)
			}
			if !got && msg == "" {
				t.Error("invalid URL must carry a message")
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2026-11-11", true},
		{"", true},
		{"11-11-2026", false},
		{"2026-13-40", false},
		{"tomorrow", false},
	}

	for _, tt := range tests {
		if got, _ := ValidateDate(tt.date); got != tt.want {
			t.Errorf("ValidateDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"ordered", "2026-11-11", "2026-11-14", true},
		{"same day", "2026-11-11", "2026-11-11", true},
		{"reversed", "2026-11-14", "2026-11-11", false},
		{"open ended", "2026-11-11", "", true},
		{"bad end", "2026-11-11", "nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ValidateDateRange(tt.start, tt.end); got != tt.want {
				t.Errorf("ValidateDateRange(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
