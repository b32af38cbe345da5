// Package fetch is the network boundary for ingestion payloads. It wraps
// HTTP GET with a pass-through TTL cache, transparent xz decompression, and
// blake3 content fingerprinting for payload identity in logs and cache keys.
package fetch

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/Lectern/internal/cache"
	"github.com/FocuswithJustin/Lectern/internal/logging"
)

// xzMagic is the xz stream header prefix.
var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// maxPayloadBytes caps a single payload read. Corpus dumps run a few tens
// of megabytes; anything past this is not a corpus.
const maxPayloadBytes = 256 << 20

// Client fetches ingestion payloads. The cache is pass-through only: it
// memoizes raw responses per URL so repeated store initializations and lazy
// document fetches do not re-download, with no further caching policy.
type Client struct {
	http  *http.Client
	cache *cache.TTLCache[string, []byte]
}

// New creates a fetch client. ttl bounds how long cached payloads are
// reused; zero disables expiration.
func New(timeout, ttl time.Duration) *Client {
	return &Client{
		http:  &http.Client{Timeout: timeout},
		cache: cache.New[string, []byte](ttl),
	}
}

// Get fetches a payload by URL, decompressing xz streams transparently.
// The returned slice is a copy and safe to retain.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if data, ok := c.cache.Get(url); ok {
		logging.FetchResult(url, 0, int64(len(data)), true)
		return append([]byte(nil), data...), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.FetchResult(url, resp.StatusCode, 0, false)
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	if bytes.HasPrefix(data, xzMagic) {
		data, err = decompressXZ(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", url, err)
		}
	}

	logging.FetchResult(url, resp.StatusCode, int64(len(data)), false,
		"fingerprint", Fingerprint(data))
	c.cache.Set(url, data)
	return append([]byte(nil), data...), nil
}

// decompressXZ expands an xz stream in memory.
func decompressXZ(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(io.LimitReader(r, maxPayloadBytes))
}

// Fingerprint returns a short blake3 content fingerprint of a payload,
// suitable for log correlation and cache keys.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
