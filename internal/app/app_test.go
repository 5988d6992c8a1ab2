package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vinylchat/internal/config"
	"vinylchat/internal/storage"
)

const collectionCSV = `Catalog#,Artist,Title,Label,Format,Rating,Released,release_id
4AD-1,Grimes (4),Visions,4AD,LP,,2012,1
4AD-2,Pixies,Doolittle,4AD,LP,,1989,2
SP-1,Nirvana,Bleach,Sub Pop,LP,,1989,3
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "discogs.csv")
	if err := os.WriteFile(path, []byte(collectionCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		DiscogsFile:     path,
		LoadMaxAttempts: 1,
		APIPort:         "9000",
		LogFormat:       "text",
	}
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNew_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, NewLogger(cfg, io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	w := post(t, a.Handler, "/api/chat", `{"message":"records on 4AD"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["toolName"] != "query_vinyl_collection" {
		t.Errorf("toolName = %v", resp["toolName"])
	}
	if !strings.HasPrefix(resp["answer"].(string), "Found 2 result(s):") {
		t.Errorf("answer = %q", resp["answer"])
	}

	w = post(t, a.Handler, "/api/tools/stats_summary", ``)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Total Records: 3") {
		t.Errorf("stats status = %d, body %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"records":3`) {
		t.Errorf("health status = %d, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("history without DB_PATH status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "Vinyl Chat") {
		t.Error("index page not served")
	}
}

func TestNew_WithChatLog(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = filepath.Join(t.TempDir(), "data", "chat.db")

	a, err := New(context.Background(), cfg, NewLogger(cfg, io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if w := post(t, a.Handler, "/api/chat", `{"message":"stats","sessionId":"s1"}`); w.Code != http.StatusOK {
		t.Fatalf("chat status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil)
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var entries []storage.ChatLogEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].SessionID != "s1" || entries[0].ToolName != "stats_summary" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestNew_NoSource(t *testing.T) {
	cfg := &config.Config{LoadMaxAttempts: 1}
	if _, err := New(context.Background(), cfg, NewLogger(cfg, io.Discard)); err == nil {
		t.Fatal("New() without a source should fail")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogFormat: "json"}
	NewLogger(cfg, &buf).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json logger output = %s", buf.String())
	}

	buf.Reset()
	cfg.LogFormat = "text"
	NewLogger(cfg, &buf).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line written at info level: %s", buf.String())
	}
}

func TestNew_ReloadAndDegradedHealth(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, NewLogger(cfg, io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	if rec := get("/api/health"); !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Fatalf("health body %s", rec.Body.String())
	}

	extra := collectionCSV + "WARP-1,Aphex Twin,Drukqs,Warp,LP,,2001,4\n"
	if err := os.WriteFile(cfg.DiscogsFile, []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}
	if w := post(t, a.Handler, "/api/reload", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"records":4`) {
		t.Fatalf("reload status = %d, body %s", w.Code, w.Body.String())
	}

	if err := os.Remove(cfg.DiscogsFile); err != nil {
		t.Fatal(err)
	}
	if w := post(t, a.Handler, "/api/reload", ""); w.Code != http.StatusBadGateway {
		t.Fatalf("failed reload status = %d, want 502", w.Code)
	}

	rec := get("/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"degraded"`) || !strings.Contains(body, `"records":4`) {
		t.Errorf("health body %s, want degraded with the previous collection", body)
	}
}
