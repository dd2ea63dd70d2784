package http

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoPayload struct {
	Message string `json:"message"`
}

func newTestConnector(baseURL string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: baseURL, Logger: zap.NewNop()}, opts...)
}

func TestDoRequestJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "genie-test", r.Header.Get("User-Agent"))

		var in echoPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(echoPayload{Message: "echo: " + in.Message})
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, WithUserAgent("genie-test"), WithRequestLogging())

	var out echoPayload
	err := c.DoRequest(context.Background(), http.MethodPost, "/api/chat", echoPayload{Message: "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out.Message)
}

func TestDoRequestWithoutBodyOmitsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/api/chat/clear", nil, nil)
	assert.NoError(t, err)
}

func TestDoRequestNon2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/api/documents", nil, &struct{}{})

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "boom")
	assert.True(t, IsTransportFailure(err))
}

func TestDoRequestBadJSONIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	var out echoPayload
	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, &out)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.True(t, IsTransportFailure(err))
}

func TestDoRequestEmptyBodyWhenDecodingIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out echoPayload
	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/", nil, &out)

	var decErr *DecodeError
	assert.ErrorAs(t, err, &decErr)
}

func TestDoRequestUnreachableIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newTestConnector(url).DoRequest(context.Background(), http.MethodGet, "/api/init", nil, &struct{}{})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, IsTransportFailure(err))
}

func TestDoMultipartRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "report.csv", header.Filename)
		assert.Equal(t, "a,b\n1,2\n", string(content))

		_ = json.NewEncoder(w).Encode(echoPayload{Message: "stored"})
	}))
	defer srv.Close()

	prepare := func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", "report.csv")
		if err != nil {
			return err
		}
		_, err = part.Write([]byte("a,b\n1,2\n"))
		return err
	}

	var out echoPayload
	err := newTestConnector(srv.URL).DoMultipartRequest(context.Background(), http.MethodPost, "/api/upload", prepare, &out)
	require.NoError(t, err)
	assert.Equal(t, "stored", out.Message)
}

func TestWithURLOverridesBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/elsewhere", r.URL.Path)
		assert.Equal(t, "abc", r.Header.Get("X-Trace"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestConnector("http://127.0.0.1:1")
	err := c.DoRequest(context.Background(), http.MethodGet, "/ignored", nil, nil,
		WithURL(srv.URL+"/elsewhere"),
		WithHeader("X-Trace", "abc"),
	)
	assert.NoError(t, err)
}
