package validation

import (
	"strings"
	"testing"
)

func TestValidateCaseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Valid names
		{"simple", "feed", false},
		{"single char", "a", false},
		{"with digits", "feed4b", false},
		{"with underscores", "session_feed_remote_4b", false},
		{"starts with digit", "4b_feed", false},

		// Invalid names
		{"empty", "", true},
		{"uppercase", "Feed", true},
		{"spaces", "feed 4b", true},
		{"starts with underscore", "_feed", true},
		{"shell metachars", "feed;rm", true},
		{"format verbs", "feed%d", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCaseName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCaseName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{"empty means local", "", false},
		{"host and port", "127.0.0.1:8089", false},
		{"hostname and port", "graphd.internal:8089", false},
		{"no port", "127.0.0.1", true},
		{"no host", ":8089", true},
		{"garbage", "not a target", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTarget(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{"passthrough", "127.0.0.1:8089", "127.0.0.1:8089", false},
		{"trims whitespace", "  127.0.0.1:8089  ", "127.0.0.1:8089", false},
		{"empty stays empty", "", "", false},
		{"invalid rejected", "nope", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeTarget(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeTarget(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}
