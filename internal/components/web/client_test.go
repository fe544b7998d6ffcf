package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"arewesmite2yet/internal/components/pagecache"
	"arewesmite2yet/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hits *int64) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		w.Write([]byte("<html><body><p>hello</p></body></html>"))
	})
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		w.Header().Set("content-type", "image/png")
		w.Write([]byte("png"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(tel telemetry.API) *Client {
	return NewClient(ClientOptions{
		FetchTimeout:            time.Second,
		ProbeTimeout:            time.Second,
		DownloadTimeout:         time.Second,
		DisableCloudflareBypass: true,
	}, tel)
}

func TestClientFetch(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	client := newTestClient(telemetry.NewRecorder())

	doc, err := client.Fetch(context.Background(), server.URL+"/page")
	require.NoError(t, err)
	require.True(t, doc.OK())
	require.Contains(t, string(doc.Body), "hello")

	doc, err = client.Fetch(context.Background(), server.URL+"/missing")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, doc.Status)

	_, _, err = FetchHTML(context.Background(), client, server.URL+"/missing")
	require.ErrorAs(t, err, &StatusError{})

	parsed, _, err := FetchHTML(context.Background(), client, server.URL+"/page")
	require.NoError(t, err)
	require.Equal(t, "hello", parsed.Find("p").Text())
}

func TestClientExists(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	client := newTestClient(telemetry.NewRecorder())

	exists, err := client.Exists(context.Background(), server.URL+"/image.png")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = client.Exists(context.Background(), server.URL+"/nope.png")
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = client.Exists(context.Background(), "http://127.0.0.1:1/unreachable.png")
	require.Error(t, err)
	require.False(t, exists)
}

func TestClientDownload(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	tel := telemetry.NewRecorder()
	client := newTestClient(tel)

	dir := t.TempDir()
	dest := filepath.Join(dir, "gods", "smite2", "thumb", "zeus.png")
	err := client.Download(context.Background(), server.URL+"/image.png", dest)
	require.NoError(t, err)
	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "png", string(contents))

	missing := filepath.Join(dir, "missing.png")
	err = client.Download(context.Background(), server.URL+"/missing.png", missing)
	require.Error(t, err)
	_, err = os.Stat(missing)
	require.True(t, os.IsNotExist(err))
	require.NotEmpty(t, tel.Find(telemetry.LevelWarning, report_client_download))
}

func TestClientRequestDelay(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)
	client := NewClient(ClientOptions{
		RequestDelay:            50 * time.Millisecond,
		DisableCloudflareBypass: true,
	}, telemetry.NewRecorder())

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), server.URL+"/page")
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestCachedFetcher(t *testing.T) {
	var hits int64
	server := newTestServer(t, &hits)

	cache, err := pagecache.Open("", time.Hour)
	require.NoError(t, err)
	defer cache.Close()

	tel := telemetry.NewRecorder()
	fetcher := NewCachedFetcher(newTestClient(tel), cache, tel)

	for i := 0; i < 3; i++ {
		doc, err := fetcher.Fetch(context.Background(), server.URL+"/page")
		require.NoError(t, err)
		require.Contains(t, string(doc.Body), "hello")
	}
	require.Equal(t, int64(1), atomic.LoadInt64(&hits))

	for i := 0; i < 2; i++ {
		doc, err := fetcher.Fetch(context.Background(), server.URL+"/missing")
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, doc.Status)
	}
}
