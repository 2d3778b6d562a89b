package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadToFile(t *testing.T) {
	content := []byte("artifact payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), DefaultUserAgent)
		}
		w.Write(content)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "artifact.tar.gz")
	d := NewDownloader()

	n, err := d.DownloadToFile(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("DownloadToFile() error: %v", err)
	}
	if n != int64(len(content)) {
		t.Errorf("DownloadToFile() wrote %d bytes, want %d", n, len(content))
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("downloaded content = %q, want %q", got, content)
	}

	if _, err := os.Stat(dest + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind after successful download")
	}
}

func TestDownloadToFileRetriesThenSucceeds(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "artifact.tar.gz")
	d := NewDownloader()

	if _, err := d.DownloadToFile(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("DownloadToFile() error: %v", err)
	}
	if requests != 3 {
		t.Errorf("server saw %d requests, want 3", requests)
	}
}

func TestDownloadToFileExhaustsRetries(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "artifact.tar.gz")
	d := NewDownloader()
	d.retries = 1

	if _, err := d.DownloadToFile(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("DownloadToFile() succeeded against a 404 server")
	}
	if requests != 2 {
		t.Errorf("server saw %d requests, want 2", requests)
	}
	if FileExists(dest) {
		t.Error("failed download left a file under the final name")
	}
}

func TestDownloadToFileCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDownloader()
	if _, err := d.DownloadToFile(ctx, srv.URL, filepath.Join(t.TempDir(), "a")); err == nil {
		t.Fatal("DownloadToFile() succeeded with a cancelled context")
	}
}

func TestFetchBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("abc123  eclipse.tar.gz\n"))
	}))
	defer srv.Close()

	d := NewDownloader()
	body, err := d.FetchBody(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBody() error: %v", err)
	}
	if string(body) != "abc123  eclipse.tar.gz\n" {
		t.Errorf("FetchBody() = %q", body)
	}
}

func TestFetchBodyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewDownloader()
	if _, err := d.FetchBody(context.Background(), srv.URL); err == nil {
		t.Fatal("FetchBody() succeeded against a 404 server")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()

	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists() true for a missing path")
	}
	if FileExists(dir) {
		t.Error("FileExists() true for a directory")
	}

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if FileExists(empty) {
		t.Error("FileExists() true for an empty file")
	}

	full := filepath.Join(dir, "full")
	if err := os.WriteFile(full, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(full) {
		t.Error("FileExists() false for a non-empty file")
	}
}
