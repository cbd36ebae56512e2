package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	cases := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"not-a-level", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tc := range cases {
		logger := NewLogger(Config{Level: tc.level})
		if got := logger.GetLevel(); got != tc.want {
			t.Fatalf("level %q: got %v, want %v", tc.level, got, tc.want)
		}
	}
}
