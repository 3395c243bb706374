package vg

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerDefaultsToNopHandler(t *testing.T) {
	SetLogger(nil)
	l := logger()
	assert.False(t, l.Enabled(nil, slog.LevelError))
}

func TestSetLoggerInstallsProvidedLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	SetLogger(l)
	defer SetLogger(nil)

	logger().Warn("resource exhausted")
	assert.Contains(t, buf.String(), "resource exhausted")
}

func TestSetLoggerNilRestoresNopHandler(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	SetLogger(nil)
	defer SetLogger(nil)

	logger().Warn("should not appear")
	assert.Empty(t, buf.String())
}
