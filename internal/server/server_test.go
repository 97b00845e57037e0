package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reoring/idjson/internal/config"
)

const sampleJSON = `{"ParentId":"143563463467","Name":"Name","Child":{"ChildId":"423534645674","Description":"Desc"}}`

func newTestServer(t *testing.T, framework, engine string) (*Server, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Framework = framework
	cfg.Codec.Engine = engine
	var logs bytes.Buffer
	s, err := New(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	return s, &logs
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var variants = []struct{ framework, engine string }{
	{"echo", "native"},
	{"echo", "jsoniter"},
	{"gin", "native"},
	{"gin", "jsoniter"},
}

func TestGetPost(t *testing.T) {
	for _, v := range variants {
		t.Run(v.framework+"/"+v.engine, func(t *testing.T) {
			s, _ := newTestServer(t, v.framework, v.engine)
			rec := do(t, s.Handler(), http.MethodGet, "/api/post", "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, sampleJSON, rec.Body.String())
			require.Contains(t, rec.Body.String(), `"ParentId":"143563463467"`)
			require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestPostPost_EchoesPayload(t *testing.T) {
	for _, v := range variants {
		t.Run(v.framework+"/"+v.engine, func(t *testing.T) {
			s, _ := newTestServer(t, v.framework, v.engine)
			rec := do(t, s.Handler(), http.MethodPost, "/api/post", `{"ParentId":"1","Name":"n","Child":{"ChildId":2,"Description":"d"}}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.JSONEq(t, `{"ParentId":"1","Name":"n","Child":{"ChildId":"2","Description":"d"}}`, rec.Body.String())
		})
	}
}

func TestPostPost_MalformedRequiredIdentifier(t *testing.T) {
	for _, v := range variants {
		t.Run(v.framework+"/"+v.engine, func(t *testing.T) {
			s, _ := newTestServer(t, v.framework, v.engine)
			rec := do(t, s.Handler(), http.MethodPost, "/api/post", `{"Name":"n","Child":{"ChildId":"abc"}}`)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var payload struct {
				Issues []struct {
					Path string `json:"path"`
					Code string `json:"code"`
				} `json:"issues"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
			require.NotEmpty(t, payload.Issues)
			require.Equal(t, "Child.ChildId", payload.Issues[0].Path)
			require.Equal(t, "invalid_format", payload.Issues[0].Code)
		})
	}
}

func TestPostPost_MalformedOptionalIdentifier(t *testing.T) {
	for _, v := range variants {
		t.Run(v.framework+"/"+v.engine, func(t *testing.T) {
			s, logs := newTestServer(t, v.framework, v.engine)
			rec := do(t, s.Handler(), http.MethodPost, "/api/post", `{"ParentId":"abc","Name":"n","Child":{"ChildId":"5"}}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.Contains(t, rec.Body.String(), `"ParentId":null`)
			require.Contains(t, logs.String(), "malformed optional identifier")
			if v.engine == "native" {
				require.Equal(t, "ParentId", rec.Header().Get(MalformedHeader))
			}
		})
	}
}

func TestSchemaAndOpenAPI(t *testing.T) {
	for _, v := range variants {
		t.Run(v.framework+"/"+v.engine, func(t *testing.T) {
			s, _ := newTestServer(t, v.framework, v.engine)

			rec := do(t, s.Handler(), http.MethodGet, "/schema", "")
			require.Equal(t, http.StatusOK, rec.Code)
			var schema map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
			pid := schema["properties"].(map[string]any)["ParentId"].(map[string]any)
			require.Equal(t, "string", pid["type"])
			require.Equal(t, "int64", pid["format"])

			rec = do(t, s.Handler(), http.MethodGet, "/openapi.json", "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), `"openapi": "3.0.3"`)

			rec = do(t, s.Handler(), http.MethodGet, "/openapi.yaml", "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), "openapi: 3.0.3")
			require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

			rec = do(t, s.Handler(), http.MethodGet, "/healthz", "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		})
	}
}

func TestRequestLogging(t *testing.T) {
	s, logs := newTestServer(t, "echo", "native")
	do(t, s.Handler(), http.MethodGet, "/healthz", "")
	require.Contains(t, logs.String(), "msg=request")
	require.Contains(t, logs.String(), "path=/healthz")
	require.Contains(t, logs.String(), "status=200")
}

func TestNew_UnknownFramework(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Framework = "chi"
	_, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func TestServe_GracefulShutdown(t *testing.T) {
	s, _ := newTestServer(t, "echo", "native")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + ln.Addr().String() + "/api/post")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.JSONEq(t, sampleJSON, string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
