package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futig/genie-client/internal/api"
	"github.com/futig/genie-client/internal/api/chat"
	"github.com/futig/genie-client/internal/api/document"
	"github.com/futig/genie-client/internal/config"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/integration/backend"
	"github.com/futig/genie-client/internal/pkg/validator"
	"github.com/futig/genie-client/internal/repository"
	"github.com/futig/genie-client/internal/session"
	"github.com/futig/genie-client/internal/usecase/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()

	stubCfg := config.StubConfig{MaxUploadSize: 1 << 20}

	docs, err := repository.NewDocumentDisk(t.TempDir())
	require.NoError(t, err)

	uc := assistant.NewUsecase(docs, repository.NewHistoryCache(time.Minute), zap.NewNop())
	router := api.SetupRouter(
		chat.NewHandler(uc),
		document.NewHandler(uc, stubCfg, validator.NewFileValidator(stubCfg.MaxUploadSize)),
		"docs/swagger.yaml",
		zap.NewNop(),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newStubServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatRejectsMalformedBody(t *testing.T) {
	srv := newStubServer(t)

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadUnsupportedType(t *testing.T) {
	srv := newStubServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/upload", w.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var res entity.OperationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, assistant.MsgUnsupportedType, res.Message)
}

func TestUploadWithoutFilePart(t *testing.T) {
	srv := newStubServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("other", "x"))
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/api/upload", w.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var res entity.OperationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, assistant.MsgNoFilePart, res.Message)
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	srv := newStubServer(t)

	resp := postJSON(t, srv.URL+"/api/documents/delete", entity.DeleteDocumentRequest{Document: "../config.yaml"})

	var res entity.OperationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Success)
}

func TestCORSPreflight(t *testing.T) {
	srv := newStubServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

type autoPrompter struct {
	answer bool
	alerts []string
}

func (p *autoPrompter) Confirm(ctx context.Context, question string) bool { return p.answer }
func (p *autoPrompter) Alert(ctx context.Context, message string)        { p.alerts = append(p.alerts, message) }

// TestSessionAgainstStub drives a controller through the real connector and router.
func TestSessionAgainstStub(t *testing.T) {
	srv := newStubServer(t)
	ctx := context.Background()

	cfg := config.BackendConfig{
		HTTPClientConfig:  config.HTTPClientConfig{Url: srv.URL, UserAgent: "genie-test"},
		InitEndpoint:      "/api/init",
		ChatEndpoint:      "/api/chat",
		ClearEndpoint:     "/api/chat/clear",
		UploadEndpoint:    "/api/upload",
		DocumentsEndpoint: "/api/documents",
		DeleteEndpoint:    "/api/documents/delete",
		ResetEndpoint:     "/api/reset",
	}
	prompter := &autoPrompter{answer: true}
	c := session.NewController(backend.NewConnector(cfg, zap.NewNop()), prompter, session.DefaultOptions(), zap.NewNop())

	require.Equal(t, session.OutcomeDone, c.Initialize(ctx))
	snap := c.Snapshot()
	assert.NotEmpty(t, snap.ThreadID)
	assert.Empty(t, snap.Documents)

	require.Equal(t, session.OutcomeDone, c.Submit(ctx, "anything there?"))
	snap = c.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Contains(t, snap.History[1].Content, "I don't have any documents")

	c.SetView(session.ViewDocuments)
	require.Equal(t, session.OutcomeDone, c.Upload(ctx, entity.FileFromBytes("sales.csv", []byte("q,v\n1,2\n"))))
	snap = c.Snapshot()
	assert.Equal(t, session.ViewChat, snap.ActiveView)
	assert.Equal(t, []entity.DocumentRef{{Name: "sales.csv"}}, snap.Documents)

	require.Equal(t, session.OutcomeDone, c.Submit(ctx, "do you have documents?"))
	snap = c.Snapshot()
	assert.Equal(t, "I have 1 document(s) in my knowledge base: sales.csv.", snap.History[len(snap.History)-1].Content)

	require.Equal(t, session.OutcomeFailed, c.Upload(ctx, entity.FileFromBytes("notes.txt", []byte("x"))))
	assert.Equal(t, []string{assistant.MsgUnsupportedType}, prompter.alerts)

	require.Equal(t, session.OutcomeDone, c.DeleteDocument(ctx, "sales.csv"))
	assert.Empty(t, c.Snapshot().Documents)

	require.Equal(t, session.OutcomeDone, c.ClearConversation(ctx))
	assert.Empty(t, c.Snapshot().History)

	require.Equal(t, session.OutcomeDone, c.ResetBackend(ctx))
}
