package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ISOnRM/minecraft-server/internal/errors"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://api.papermc.io/v2/projects/paper/versions/1.21.4/builds/212/downloads/paper-1.21.4-212.jar", "paper-1.21.4-212.jar", false},
		{"http://example.com/core.jar?token=abc", "core.jar", false},
		{"https://example.com/", "", true},
		{"https://example.com", "", true},
		{"ftp://example.com/core.jar", "", true},
		{"not a url\x7f", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := FileName(tt.url)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidURL) {
					t.Fatalf("FileName() error = %v, want ErrInvalidURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetch_WritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("jar-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "core.jar")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := New(srv.Client()).Fetch(context.Background(), srv.URL+"/core.jar", dest); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "jar-bytes" {
		t.Errorf("content = %q, want overwritten download", data)
	}
	assertNoPartials(t, dir)
}

func TestFetch_HTTPErrorLeavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "core.jar")

	err := New(nil).Fetch(context.Background(), srv.URL+"/core.jar", dest)
	if !errors.Is(err, errors.ErrDownloadFailed) {
		t.Fatalf("Fetch() error = %v, want ErrDownloadFailed", err)
	}
	if errors.KindOf(err) != errors.KindExternalIO {
		t.Errorf("kind = %v, want external_io", errors.KindOf(err))
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error should mention the status: %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("dest should not exist after a failed download")
	}
	assertNoPartials(t, dir)
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := New(srv.Client()).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("Get() = %q", body)
	}
}

func assertNoPartials(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".part") {
			t.Errorf("leftover partial file %s", e.Name())
		}
	}
}
