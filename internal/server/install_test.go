package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ISOnRM/minecraft-server/internal/download"
	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/ui"
)

func newPaperServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/v2/projects/paper", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"versions": []string{"1.20.4", "1.21.4"},
		})
	})
	mux.HandleFunc("/v2/projects/paper/versions/1.21.4/builds", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"builds": []map[string]any{
				{"build": 41, "downloads": map[string]any{"application": map[string]any{"name": "paper-1.21.4-41.jar"}}},
				{"build": 42, "downloads": map[string]any{"application": map[string]any{"name": "paper-1.21.4-42.jar"}}},
			},
		})
	})
	mux.HandleFunc("/v2/projects/paper/versions/1.21.4/builds/42/downloads/paper-1.21.4-42.jar", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("paper-42"))
	})
	mux.HandleFunc("/v2/projects/paper/versions/1.21.4/builds/212/downloads/paper-1.21.4-212.jar", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("paper-212"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestInstaller(srv *httptest.Server) *Installer {
	inst := NewInstaller(download.New(srv.Client()), ui.NewWriter(&bytes.Buffer{}, false))
	inst.PaperAPI = srv.URL + "/v2"
	return inst
}

func TestPaperBuildURL(t *testing.T) {
	got := PaperBuildURL(PaperAPI, "1.21.4", "212")
	want := "https://api.papermc.io/v2/projects/paper/versions/1.21.4/builds/212/downloads/paper-1.21.4-212.jar"
	if got != want {
		t.Errorf("PaperBuildURL() = %q, want %q", got, want)
	}
}

func TestFetchPaperBuild_Pinned(t *testing.T) {
	srv := newPaperServer(t)
	dir := bindTestDir(t)

	core, err := newTestInstaller(srv).FetchPaperBuild(context.Background(), dir, "1.21.4", "212")
	if err != nil {
		t.Fatalf("FetchPaperBuild() error: %v", err)
	}
	if core.Name() != "paper-1.21.4-212.jar" {
		t.Errorf("core = %q", core.Name())
	}
	data, err := os.ReadFile(core.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "paper-212" {
		t.Errorf("content = %q", data)
	}
}

func TestFetchPaperBuild_Latest(t *testing.T) {
	srv := newPaperServer(t)
	dir := bindTestDir(t)

	core, err := newTestInstaller(srv).FetchPaperBuild(context.Background(), dir, Latest, Latest)
	if err != nil {
		t.Fatalf("FetchPaperBuild() error: %v", err)
	}
	if core.Name() != "paper-1.21.4-42.jar" {
		t.Errorf("core = %q, want newest build", core.Name())
	}
}

func TestFetchByURL_Failure(t *testing.T) {
	srv := newPaperServer(t)
	dir := bindTestDir(t)

	_, err := newTestInstaller(srv).FetchByURL(context.Background(), dir, srv.URL+"/missing/core.jar")
	if !errors.Is(err, errors.ErrDownloadFailed) {
		t.Fatalf("FetchByURL() error = %v, want ErrDownloadFailed", err)
	}
	if _, ok, _ := NewestCore(dir); ok {
		t.Error("no core should exist after a failed download")
	}
}

func TestFetchByURL_InvalidURL(t *testing.T) {
	srv := newPaperServer(t)
	dir := bindTestDir(t)

	_, err := newTestInstaller(srv).FetchByURL(context.Background(), dir, srv.URL+"/")
	if !errors.Is(err, errors.ErrInvalidURL) {
		t.Fatalf("FetchByURL() error = %v, want ErrInvalidURL", err)
	}
}
