package logging

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetLoggerInitialized(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger() = nil; want the default logger from init")
	}
}
