package builder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/integration/backend"
	"github.com/futig/genie-client/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acceptAll struct{}

func (acceptAll) Confirm(ctx context.Context, question string) bool { return true }
func (acceptAll) Alert(ctx context.Context, message string)        {}

func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LOG_FILE", filepath.Join(dir, "genie.log"))
	return dir
}

func TestBuildClientWithMocks(t *testing.T) {
	isolate(t)
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("UI_RESPONSE_TIMEOUT", "45")
	t.Setenv("UI_EXPORT_FORMAT", "pdf")

	client, err := BuildClient("local", false)
	require.NoError(t, err)

	assert.IsType(t, &backend.MockConnector{}, client.Backend)
	assert.Equal(t, 45, client.SessionOptions().ResponseTimeout)
	assert.Equal(t, entity.FormatPDF, client.TUIOptions().ExportFormat)

	c := client.NewSession(acceptAll{})
	require.Equal(t, session.OutcomeDone, c.Initialize(context.Background()))
	assert.Equal(t, 45, c.Snapshot().ResponseTimeout)
}

func TestBuildClientUsesHTTPConnector(t *testing.T) {
	isolate(t)

	client, err := BuildClient("local", false)
	require.NoError(t, err)
	assert.IsType(t, &backend.Connector{}, client.Backend)
}

func TestBuildStub(t *testing.T) {
	dir := isolate(t)
	t.Setenv("STUB_DOCS_DIR", filepath.Join(dir, "docs-store"))
	t.Setenv("STUB_ADDR", "127.0.0.1:0")

	app, err := Build("local")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", app.server.Addr)
	assert.DirExists(t, filepath.Join(dir, "docs-store"))
}

func TestBuildTelegramBotRequiresToken(t *testing.T) {
	isolate(t)

	_, _, err := BuildTelegramBot("local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_LEVEL", "loud")

	_, err := BuildClient("local", false)
	assert.ErrorContains(t, err, "failed to load configuration")
}
