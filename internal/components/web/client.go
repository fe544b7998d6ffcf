package web

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"arewesmite2yet/internal/components/assert"
	"arewesmite2yet/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_download = "client.download"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	// RequestDelay is the minimum time between two consecutive requests
	// made through the client, zero disables pacing.
	RequestDelay    time.Duration
	FetchTimeout    time.Duration
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
	// Dump receives every request/response pair when set.
	Dump telemetry.DumpOutput
	// DisableCloudflareBypass keeps the default transport, tests use it
	// against plain httptest servers.
	DisableCloudflareBypass bool
}

// Client implements Fetcher, Prober and Downloader on top of a single
// resty client that shares the rate limiter between all of them.
type Client struct {
	http *resty.Client
	opts ClientOptions
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("web", tel)

	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = 5 * time.Second
	}
	if opts.DownloadTimeout == 0 {
		opts.DownloadTimeout = 15 * time.Second
	}

	httpClient := resty.New()
	if !opts.DisableCloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", userAgent)

	if opts.RequestDelay > 0 {
		// a burst of 1 means that two requests are never closer than RequestDelay
		rateLimiter := rate.NewLimiter(rate.Every(opts.RequestDelay), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel, opts.Dump)

	return &Client{
		http: httpClient,
		opts: opts,
		tel:  tel,
	}
}

func (c *Client) Fetch(ctx context.Context, url string) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return Document{URL: url}, err
	}
	return Document{
		URL:    url,
		Status: res.StatusCode(),
		Body:   res.Body(),
	}, nil
}

// Exists issues a HEAD request, only a 2xx status means the url exists.
func (c *Client) Exists(ctx context.Context, url string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ProbeTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		Head(url)
	if err != nil {
		return false, err
	}
	return res.IsSuccess(), nil
}

func (c *Client) Download(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.DownloadTimeout)
	defer cancel()

	err := os.MkdirAll(filepath.Dir(dest), 0777)
	if err != nil {
		return err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(url)
	if err != nil {
		os.Remove(dest)
		c.tel.ReportWarning(report_client_download, fmt.Errorf("request: %w", err), url)
		return err
	}
	if !res.IsSuccess() {
		os.Remove(dest)
		err := StatusError{URL: url, Status: res.StatusCode()}
		c.tel.ReportWarning(report_client_download, err)
		return err
	}
	return nil
}
