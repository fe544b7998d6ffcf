package web

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Document is a fetched page.
type Document struct {
	URL    string
	Status int
	Body   []byte
}

// OK reports whether the document was served with a 2xx status.
func (d Document) OK() bool {
	return d.Status >= 200 && d.Status < 300
}

// Fetcher retrieves a document, the returned error only signals network
// failures, non-2xx responses come back as a Document with that status.
//
// note: fault injection point
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Document, error)
}

// Prober checks that a url exists without transferring its body. A
// non-2xx answer is (false, nil), err is only set when no answer came back.
//
// note: fault injection point
type Prober interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// Downloader writes the body of a url to a local file.
//
// note: fault injection point
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// StatusError is returned by FetchHTML when a page is not served with 2xx.
type StatusError struct {
	URL    string
	Status int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// FetchHTML fetches a page and parses it, non-2xx statuses are errors.
func FetchHTML(ctx context.Context, fetcher Fetcher, url string) (*goquery.Document, Document, error) {
	doc, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, doc, fmt.Errorf("fetch: %w", err)
	}
	if !doc.OK() {
		return nil, doc, StatusError{URL: url, Status: doc.Status}
	}
	parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, doc, fmt.Errorf("parse html: %w", err)
	}
	return parsed, doc, nil
}
