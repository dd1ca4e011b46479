package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/alizain-patel/shifts-online/internal/shared/apperror"
)

const userAgent = "shifts-online"

// Source produces one complete Snapshot of the raw event feed.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
}

// HTTPSource fetches the feed from a raw-content URL (GitHub Raw in
// production). The URL sits behind a CDN, so every request carries no-cache
// headers plus a ?v=<bucket> query that changes once per TTL to bust
// intermediate caches.
type HTTPSource struct {
	url    string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time
}

func NewHTTPSource(url string, ttl, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		ttl:    ttl,
		client: newHTTPClient(timeout),
		now:    time.Now,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

func (s *HTTPSource) Load(ctx context.Context) (Snapshot, error) {
	bucket := s.now().Unix() / int64(s.ttl.Seconds())
	fullURL := fmt.Sprintf("%s?v=%d", s.url, bucket)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return Snapshot{}, apperror.SourceUnavailable(err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return Snapshot{}, apperror.SourceUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, apperror.SourceUnavailable(fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot{}, apperror.SourceUnavailable(err)
	}

	records, err := decodeRecords(body)
	if err != nil {
		return Snapshot{}, apperror.SourceUnavailable(err)
	}

	return Snapshot{
		ID:        uuid.NewString(),
		Records:   records,
		Source:    fmt.Sprintf("GitHub Raw → %s", s.url),
		FetchedAt: s.now(),
	}, nil
}

// FileSource reads the feed from a local JSON file (on-prem/dev runs) and
// records its modification time for the summary footer.
type FileSource struct {
	path string
	now  func() time.Time
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, now: time.Now}
}

func (s *FileSource) Load(ctx context.Context) (Snapshot, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return Snapshot{}, apperror.SourceUnavailable(fmt.Errorf("JSON not found: %s: %w", s.path, err))
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return Snapshot{}, apperror.SourceUnavailable(err)
	}

	records, err := decodeRecords(b)
	if err != nil {
		return Snapshot{}, apperror.SourceUnavailable(err)
	}

	mtime := info.ModTime()
	return Snapshot{
		ID:             uuid.NewString(),
		Records:        records,
		Source:         fmt.Sprintf("Local file → %s", s.path),
		FetchedAt:      s.now(),
		FileModifiedAt: &mtime,
	}, nil
}

func decodeRecords(b []byte) ([]RawEvent, error) {
	var records []RawEvent
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return records, nil
}
