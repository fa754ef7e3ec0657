package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/regwatch/pkg/config"
)

const testPage = `<html><body>
<div class="story"><h2><a href="/gst">GST council cuts rates on solar panels</a></h2></div>
<div class="story"><h2><a href="/cricket">India wins the third test match</a></h2></div>
<div class="story"><h2><a href="https://other.example.com/sebi">SEBI tightens rules for fund houses</a></h2></div>
</body></html>`

// writeTestConfig makes config with one scraped page source and a temp database
func writeTestConfig(t *testing.T, pageURL string, port int) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
timezone: UTC
database:
  dsn: "file:%s?cache=shared&mode=rwc&_txlock=immediate"
keywords:
  regular: [GST, SEBI, Levy]
  limited: [Tarrif]
scraper:
  source_delay: 1ms
sources:
  - name: Test Page
    url: %s
    selectors:
      container: ["div.story"]
      title: ["h2"]
      link: ["a"]
server:
  enabled: true
  listen: 127.0.0.1:%d
`, filepath.Join(dir, "test.db"), pageURL, port)
	path := filepath.Join(dir, "regwatch.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func pageServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func TestRun_MissingConfig(t *testing.T) {
	err := run(context.Background(), Opts{Config: "non-existent-config.yml"}, "fetch", &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	err := run(context.Background(), Opts{Config: path}, "fetch", &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_Commands(t *testing.T) {
	page := pageServer(t)
	opts := Opts{Config: writeTestConfig(t, page.URL, freePort(t))}
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, opts, "fetch", &out))
	assert.Contains(t, out.String(), "Fetch cycle")

	out.Reset()
	require.NoError(t, run(ctx, opts, "stats", &out))
	assert.Contains(t, out.String(), "GST")
	assert.Contains(t, out.String(), "SEBI")
	assert.NotContains(t, out.String(), "cricket")

	out.Reset()
	opts.Export.File = filepath.Join(t.TempDir(), "articles.xlsx")
	require.NoError(t, run(ctx, opts, "export", &out))
	assert.Contains(t, out.String(), "exported 2 articles")
	_, err := os.Stat(opts.Export.File)
	require.NoError(t, err)

	err = run(ctx, opts, "send", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notifications are disabled")

	err = run(ctx, opts, "nope", &out)
	require.Error(t, err)
}

func TestRun_ServerStartStop(t *testing.T) {
	page := pageServer(t)
	port := freePort(t)
	opts := Opts{Config: writeTestConfig(t, page.URL, port)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts, "run", &bytes.Buffer{}) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/v1/status")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Post(base+"/api/v1/keywords/limited", "application/json", strings.NewReader(`{"keyword":"Levy"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run didn't stop")
	}

	// limited keyword edits survive restart
	cfg, err := config.Load(opts.Config)
	require.NoError(t, err)
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	defer a.close()
	regular, limited := a.matcher.Keywords()
	assert.Equal(t, []string{"Tarrif", "Levy"}, limited)
	assert.Equal(t, []string{"GST", "SEBI"}, regular)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, splitList(" a@example.com, ,b@example.com "))
	assert.Empty(t, splitList(""))
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, "secret1", "secret2")
	})
}
