package web

import (
	"context"
	"errors"
	"net/http"

	"arewesmite2yet/internal/components/assert"
	"arewesmite2yet/internal/components/pagecache"
	"arewesmite2yet/internal/components/telemetry"
)

const (
	report_cached_fetch_get = "cached-fetch.get"
	report_cached_fetch_set = "cached-fetch.set"
)

// PageStore is the subset of pagecache.Cache that CachedFetcher uses.
type PageStore interface {
	Get(url string) ([]byte, error)
	Set(url string, contents []byte) error
}

// CachedFetcher serves pages from a PageStore before delegating to the
// wrapped Fetcher, only 2xx documents are stored.
type CachedFetcher struct {
	inner Fetcher
	store PageStore
	tel   telemetry.API
}

func NewCachedFetcher(inner Fetcher, store PageStore, tel telemetry.API) CachedFetcher {
	assert.NotNil(inner)
	assert.NotNil(store)
	assert.NotNil(tel)
	return CachedFetcher{
		inner: inner,
		store: store,
		tel:   telemetry.NewScopedAPI("web", tel),
	}
}

func (f CachedFetcher) Fetch(ctx context.Context, url string) (Document, error) {
	contents, err := f.store.Get(url)
	if err == nil {
		f.tel.ReportDebug("page cache hit", url)
		return Document{URL: url, Status: http.StatusOK, Body: contents}, nil
	}
	if !errors.Is(err, pagecache.ErrPageNotFound) {
		f.tel.ReportWarning(report_cached_fetch_get, err, url)
	}

	doc, err := f.inner.Fetch(ctx, url)
	if err != nil {
		return doc, err
	}
	if doc.OK() {
		err = f.store.Set(url, doc.Body)
		if err != nil {
			f.tel.ReportWarning(report_cached_fetch_set, err, url)
		}
	}
	return doc, nil
}
