// Package webtest provides an in-memory stand in for the web collaborators.
package webtest

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"arewesmite2yet/internal/components/web"
)

var ErrUnreachable = errors.New("webtest: unreachable")

// Site serves fixed bodies by url, unknown urls are 404s. It implements
// web.Fetcher, web.Prober and web.Downloader and counts every call.
type Site struct {
	mutex       sync.Mutex
	pages       map[string][]byte
	unreachable map[string]struct{}
	fetches     map[string]int
	probes      map[string]int
	downloads   map[string]int
}

func NewSite() *Site {
	return &Site{
		pages:       make(map[string][]byte),
		unreachable: make(map[string]struct{}),
		fetches:     make(map[string]int),
		probes:      make(map[string]int),
		downloads:   make(map[string]int),
	}
}

func (s *Site) Serve(url, body string) *Site {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pages[url] = []byte(body)
	return s
}

// Fail makes every request to url return a network error.
func (s *Site) Fail(url string) *Site {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.unreachable[url] = struct{}{}
	return s
}

func (s *Site) lookup(url string) ([]byte, int, error) {
	if _, ok := s.unreachable[url]; ok {
		return nil, 0, ErrUnreachable
	}
	body, ok := s.pages[url]
	if !ok {
		return nil, http.StatusNotFound, nil
	}
	return body, http.StatusOK, nil
}

func (s *Site) Fetch(ctx context.Context, url string) (web.Document, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.fetches[url]++

	body, status, err := s.lookup(url)
	if err != nil {
		return web.Document{URL: url}, err
	}
	return web.Document{URL: url, Status: status, Body: body}, nil
}

func (s *Site) Exists(ctx context.Context, url string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.probes[url]++

	_, status, err := s.lookup(url)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

func (s *Site) Download(ctx context.Context, url, dest string) error {
	s.mutex.Lock()
	s.downloads[url]++
	body, status, err := s.lookup(url)
	s.mutex.Unlock()

	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return web.StatusError{URL: url, Status: status}
	}
	err = os.MkdirAll(filepath.Dir(dest), 0777)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, body, 0666)
}

func (s *Site) Fetches(url string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.fetches[url]
}

func (s *Site) Probes(url string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.probes[url]
}

func (s *Site) Downloads(url string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.downloads[url]
}

// TotalDownloads counts downloads across every url.
func (s *Site) TotalDownloads() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	total := 0
	for _, n := range s.downloads {
		total += n
	}
	return total
}
