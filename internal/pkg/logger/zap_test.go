package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/genie-client/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genie.log")

	log, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, false)
	require.NoError(t, err)

	log.Info("hello", zap.String("k", "v"))
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := Bind(context.Background(), zap.New(core))
	ctx = WithAction(ctx, "SendMessage")
	ctx = AddFields(ctx, zap.Int("turns", 2))

	ctxzap.Info(ctx, "sent")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "SendMessage", fields["action"])
	assert.EqualValues(t, 2, fields["turns"])
}

func TestBindKeepsExistingLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = Bind(ctx, zap.NewNop())
	ctxzap.Info(ctx, "kept")

	assert.Equal(t, 1, logs.Len())
}
