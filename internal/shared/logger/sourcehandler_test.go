package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferedLogger(minLevel slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewSourceHandler(base, minLevel)), &buf
}

func TestSourceHandler_AttachesSourceFromThreshold(t *testing.T) {
	tests := []struct {
		name       string
		minLevel   slog.Level
		level      slog.Level
		wantSource bool
	}{
		{"info below warn threshold", slog.LevelWarn, slog.LevelInfo, false},
		{"warn at threshold", slog.LevelWarn, slog.LevelWarn, true},
		{"error above threshold", slog.LevelWarn, slog.LevelError, true},
		{"debug threshold covers debug", slog.LevelDebug, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := newBufferedLogger(tt.minLevel)
			log.Log(context.Background(), tt.level, "role granted")

			if tt.wantSource {
				assert.Contains(t, buf.String(), "sourcehandler_test.go")
			} else {
				assert.NotContains(t, buf.String(), "source=")
			}
		})
	}
}

func TestSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	log, buf := newBufferedLogger(slog.LevelError)

	log.With("tenant_id", 7).WithGroup("grant").Info("role granted", "permission", "campaign:read")

	out := buf.String()
	assert.Contains(t, out, "tenant_id=7")
	assert.Contains(t, out, "grant.permission=campaign:read")
	assert.NotContains(t, out, "source=")
}

func TestSourceHandler_DelegatesEnabled(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewSourceHandler(base, slog.LevelError)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNopLogger_Discards(t *testing.T) {
	log := NewNopLogger().Named("rbac").With("tenant_id", 1)
	assert.NotPanics(t, func() {
		log.Infow("role granted", "role", "tenant_admin")
		log.Errorw("grant failed", "error", "boom")
	})
}
