package config_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/lbc-release/pkg/cli/config"
)

func TestLogger_Configure_Level(t *testing.T) {
	tests := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "DEBUG", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "Warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "", wantErr: true},
		{level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			for _, jsonFormat := range []bool{true, false} {
				logger, err := (&config.Logger{Level: tt.level, JSON: jsonFormat, Output: io.Discard}).Configure()
				if tt.wantErr {
					gt.Error(t, err)
					continue
				}
				gt.NoError(t, err)
				gt.True(t, logger.Enabled(t.Context(), tt.want))
				gt.False(t, logger.Enabled(t.Context(), tt.want-1))
			}
		})
	}
}

func TestLogger_Configure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", JSON: true, Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible", "repository_id", "r2")

	gt.False(t, bytes.Contains(buf.Bytes(), []byte("hidden")))
	gt.String(t, buf.String()).Contains(`"repository_id":"r2"`)
}

func TestLogger_Configure_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("Selected staging repository", "repository_id", "r2")
	gt.String(t, buf.String()).Contains("Selected staging repository")
}

func TestLogger_Configure_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", JSON: true, Output: &buf}).Configure()
	gt.NoError(t, err)

	staging := config.Staging{
		Username: "deployer",
		Password: "very-secret-password",
		BaseURL:  "https://example.com/service/local/staging/",
	}
	slack := config.Slack{WebhookURL: "https://hooks.slack.com/services/T000/B000/XXXX"}
	logger.Info("configured", slog.Any("staging", staging), slog.Any("slack", slack))

	gt.String(t, buf.String()).Contains("deployer")
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("very-secret-password")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("T000/B000/XXXX")))
}

func TestLogger_Flags(t *testing.T) {
	names := flagNames((&config.Logger{}).Flags())
	gt.True(t, names["log-level"])
	gt.True(t, names["log-json"])
	gt.Equal(t, len(names), 2)
}
