package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rickgao/polygon-tickers/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile, envFile, logLevel, exportOut = "", ".env", "", "tickers.csv"
		scheduleLogFile = config.DefaultLogFile
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "tickerload dev") {
		t.Errorf("output = %q, want tickerload dev prefix", out)
	}
}

func TestExportCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"status":"OK","results":[{"ticker":"A","name":"Agilent","active":true},{"ticker":"AA","name":"Alcoa","active":true}]}`))
	}))
	defer srv.Close()

	t.Setenv("POLYGON_API_KEY", "test-key")
	t.Setenv("POLYGON_BASE_URL", srv.URL)
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "")

	dir := t.TempDir()
	outPath := filepath.Join(dir, "tickers.csv")

	if _, err := execute(t, "export", "--env-file", filepath.Join(dir, "none.env"), "--out", outPath, "--log-level", "error"); err != nil {
		t.Fatalf("export error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3: %q", len(lines), data)
	}
	if !strings.HasPrefix(lines[1], "A,Agilent,") || !strings.HasPrefix(lines[2], "AA,Alcoa,") {
		t.Errorf("rows = %q, want A then AA", lines[1:])
	}
}

func TestExportRequiresAPIKey(t *testing.T) {
	t.Setenv("POLYGON_API_KEY", "")
	dir := t.TempDir()

	_, err := execute(t, "export", "--env-file", filepath.Join(dir, "none.env"), "--out", filepath.Join(dir, "x.csv"), "--log-level", "error")
	if err == nil {
		t.Fatal("export error = nil, want missing api key")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "x.csv")); !os.IsNotExist(statErr) {
		t.Error("csv file created without an api key")
	}
}

func TestExportWritesNoLogFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[{"ticker":"A","name":"Agilent","active":true}]}`))
	}))
	defer srv.Close()

	t.Setenv("POLYGON_API_KEY", "test-key")
	t.Setenv("POLYGON_BASE_URL", srv.URL)
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_LEVEL", "")

	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := execute(t, "export", "--env-file", "none.env", "--out", "tickers.csv", "--log-level", "error"); err != nil {
		t.Fatalf("export error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tickers.csv")); err != nil {
		t.Fatalf("stat csv: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.DefaultLogFile)); !os.IsNotExist(err) {
		t.Errorf("export created %s, want no log file", config.DefaultLogFile)
	}
}
