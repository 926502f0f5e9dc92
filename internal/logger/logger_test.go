package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"docrecon/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       logger.Config
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"defaults to info", logger.Config{}, zapcore.InfoLevel, false},
		{"debug console", logger.Config{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{"warn json", logger.Config{Level: "WARN", Format: "json"}, zapcore.WarnLevel, false},
		{"stderr sink", logger.Config{Output: "stderr"}, zapcore.InfoLevel, false},
		{"bad level", logger.Config{Level: "loud"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}
