// Package download streams remote artifacts onto disk.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ISOnRM/minecraft-server/internal/errors"
)

// Client fetches URLs over HTTP.
type Client struct {
	http *http.Client
}

// New returns a Client using hc, or http.DefaultClient when hc is nil.
func New(hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc}
}

// FileName returns the final path segment of rawURL, which names the file a
// download is stored under.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidURL, "", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.Newf(errors.ErrInvalidURL, "", "unsupported URL scheme %q in %s", u.Scheme, rawURL)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Newf(errors.ErrInvalidURL, "", "URL %s has no file name", rawURL)
	}
	return name, nil
}

// Fetch streams rawURL into dest. The body is written to a temporary file
// beside dest and renamed over it once complete, so dest is either the old
// content or the full download.
func (c *Client) Fetch(ctx context.Context, rawURL, dest string) error {
	slog.Debug("download", "url", rawURL, "dest", dest)

	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return errors.Wrap(errors.ErrDownloadFailed, dest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return errors.Wrap(errors.ErrDownloadFailed, dest, fmt.Errorf("creating temp file: %w", err))
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrap(errors.ErrDownloadFailed, dest, fmt.Errorf("writing %s: %w", dest, err))
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrDownloadFailed, dest, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrDownloadFailed, dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrDownloadFailed, dest, err)
	}
	return nil
}

// Get reads the whole body of rawURL. It is meant for small API responses.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDownloadFailed, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDownloadFailed, "", fmt.Errorf("reading %s: %w", rawURL, err))
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}
	return resp, nil
}
