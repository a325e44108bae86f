// Package fetch retrieves raw resource bytes from http(s) URLs or the local
// filesystem, with an optional on-disk cache.
package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var ErrFetchFailed = errors.New("fetch failed")

// Fetcher returns the bytes behind a resource location. Implementations must
// be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

const userAgent = "glframework/1.0"

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return t.Transport.RoundTrip(req)
}

// Client fetches http(s) URLs, file:// URLs and bare paths.
type Client struct {
	HTTP *http.Client
	// CacheDir, when set, stores downloaded http bodies and serves them on
	// later fetches of the same URL.
	CacheDir string
}

// NewClient returns a client whose http requests carry the framework's
// User-Agent. cacheDir may be empty to disable caching.
func NewClient(cacheDir string) *Client {
	return &Client{
		HTTP: &http.Client{
			Transport: &headerTransport{Transport: http.DefaultTransport},
		},
		CacheDir: cacheDir,
	}
}

func (c *Client) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare path, including windows drive letters
		return readFile(location)
	}

	switch u.Scheme {
	case "file":
		return readFile(u.Path)
	case "http", "https":
		return c.fetchHTTP(ctx, location)
	}
	return nil, fmt.Errorf("%w: unsupported scheme %q in %s", ErrFetchFailed, u.Scheme, location)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return data, nil
}

func (c *Client) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	var cachePath string
	if c.CacheDir != "" {
		cachePath = filepath.Join(c.CacheDir, cacheName(location))
		if data, err := os.ReadFile(cachePath); err == nil {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s, status code: %d", ErrFetchFailed, location, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrFetchFailed, location, err)
	}

	if cachePath != "" {
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			log.Printf("Warning: failed to save %s to cache at %s: %v", location, cachePath, err)
		}
	}
	return data, nil
}

func cacheName(location string) string {
	sum := sha1.Sum([]byte(location))
	base := filepath.Base(strings.SplitN(location, "?", 2)[0])
	return hex.EncodeToString(sum[:8]) + "-" + base
}

// CacheDir determines the OS-specific cache directory for subdir and creates it.
func CacheDir(subdir string) (string, error) {
	var baseCacheDir string
	var err error

	switch runtime.GOOS {
	case "windows":
		baseCacheDir = os.Getenv("LOCALAPPDATA")
		if baseCacheDir == "" {
			err = fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			err = fmt.Errorf("HOME environment variable not set")
		} else {
			baseCacheDir = filepath.Join(homeDir, "Library", "Caches")
		}
	default:
		baseCacheDir = os.Getenv("XDG_CACHE_HOME")
		if baseCacheDir == "" {
			homeDir := os.Getenv("HOME")
			if homeDir == "" {
				err = fmt.Errorf("HOME environment variable not set")
			} else {
				baseCacheDir = filepath.Join(homeDir, ".cache")
			}
		}
	}

	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(baseCacheDir, "glframework", subdir)
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory at %s: %w", cacheDir, err)
	}
	return cacheDir, nil
}
