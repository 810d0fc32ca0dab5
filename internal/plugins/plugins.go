// Package plugins manages the plugin jars in a server's plugins/ directory.
package plugins

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/ISOnRM/minecraft-server/internal/download"
	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/server"
	"github.com/ISOnRM/minecraft-server/internal/ui"
)

const (
	// DirName is the plugin directory inside a server directory.
	DirName = "plugins"
	// EnabledExt marks a plugin the server loads.
	EnabledExt = ".jar"
	// DisabledExt marks a plugin the server skips.
	DisabledExt = ".disabled"
)

// Manager downloads, removes and toggles plugins for one server directory.
type Manager struct {
	dir        string
	Downloader *download.Client
	// HangarAPI is the Hangar API base; tests point it at a local server.
	HangarAPI string
	Output    *ui.UI
}

// New returns a Manager for dir's plugins directory, creating it when
// absent.
func New(dir server.Dir, d *download.Client, output *ui.UI) (*Manager, error) {
	if dir.IsZero() {
		return nil, errors.ErrMissingServerDirectory
	}
	path := dir.Join(DirName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrFilesystem, path, err)
	}
	return &Manager{dir: path, Downloader: d, HangarAPI: HangarAPI, Output: output}, nil
}

// Path returns the plugins directory.
func (m *Manager) Path() string { return m.dir }

// FileName derives a plugin file name from rawURL's last path segment.
// Dots inside the stem become underscores so "worldedit-7.3.0.jar" is
// stored as "worldedit-7_3_0.jar".
func FileName(rawURL string) (string, error) {
	name, err := download.FileName(rawURL)
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return "", errors.Newf(errors.ErrInvalidURL, "", "URL %s has no plugin name", rawURL)
	}
	return strings.ReplaceAll(stem, ".", "_") + ext, nil
}

// Download fetches rawURL into the plugins directory and returns the
// stored path.
func (m *Manager) Download(ctx context.Context, rawURL string) (string, error) {
	name, err := FileName(rawURL)
	if err != nil {
		return "", err
	}
	dest, err := m.join(name)
	if err != nil {
		return "", err
	}

	m.Output.Info("Downloading plugin from: %s", rawURL)
	if err := m.Downloader.Fetch(ctx, rawURL, dest); err != nil {
		return "", err
	}
	slog.Info("plugin downloaded", "url", rawURL, "path", dest)
	m.Output.Success("Plugin downloaded: %s", name)
	return dest, nil
}

// BulkResult is the outcome of one line of a bulk download.
type BulkResult struct {
	URL  string
	Path string
	Err  error
}

// DownloadBulk downloads every URL listed in r, one per line. Blank lines
// are skipped. A failed item is reported and the rest still run; the
// returned error only covers reading r itself.
func (m *Manager) DownloadBulk(ctx context.Context, r io.Reader) ([]BulkResult, error) {
	var results []BulkResult
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		path, err := m.Download(ctx, line)
		if err != nil {
			slog.Warn("plugin download failed", "url", line, "err", err)
			m.Output.Error("%s: %v", line, err)
		}
		results = append(results, BulkResult{URL: line, Path: path, Err: err})
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("reading plugin list: %w", err)
	}
	return results, nil
}

// DownloadBulkFile runs DownloadBulk over the URLs in path.
func (m *Manager) DownloadBulkFile(ctx context.Context, path string) ([]BulkResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrPluginNotFound, path, "%s not found", path)
		}
		return nil, errors.Wrap(errors.ErrFilesystem, path, err)
	}
	defer f.Close()
	return m.DownloadBulk(ctx, f)
}

// Remove deletes the enabled plugin name.jar.
func (m *Manager) Remove(name string) error {
	path, err := m.plugin(name, EnabledExt)
	if err != nil {
		return err
	}
	if !isFile(path) {
		return errors.Newf(errors.ErrPluginNotFound, path, "%s plugin does not exist", path)
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrap(errors.ErrFilesystem, path, err)
	}
	slog.Info("plugin removed", "path", path)
	return nil
}

// RemoveAll deletes every enabled plugin and returns their names.
func (m *Manager) RemoveAll() ([]string, error) {
	enabled, _, err := m.scan()
	if err != nil {
		return nil, err
	}
	if len(enabled) == 0 {
		return nil, errors.Newf(errors.ErrPluginNotFound, m.dir, "no plugins found in %s", m.dir)
	}
	for _, name := range enabled {
		if err := m.Remove(name); err != nil {
			return nil, err
		}
	}
	return enabled, nil
}

// Toggle disables (name.jar -> name.disabled) or enables
// (name.disabled -> name.jar) a plugin by renaming it.
func (m *Manager) Toggle(name string, disable bool) error {
	enabled, err := m.plugin(name, EnabledExt)
	if err != nil {
		return err
	}
	disabled, err := m.plugin(name, DisabledExt)
	if err != nil {
		return err
	}

	from, to := disabled, enabled
	if disable {
		from, to = enabled, disabled
	}
	if !isFile(from) {
		if !isFile(to) {
			return errors.Newf(errors.ErrPluginNotFound, from, "there is no disabled nor enabled plugin named %s", name)
		}
		// already in the requested state
		return nil
	}
	if err := os.Rename(from, to); err != nil {
		return errors.Wrap(errors.ErrFilesystem, from, err)
	}
	slog.Info("plugin toggled", "name", name, "disabled", disable)
	return nil
}

// List returns every plugin name, sorted, with disabled ones suffixed by
// " (disabled)".
func (m *Manager) List() ([]string, error) {
	enabled, disabled, err := m.scan()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(enabled)+len(disabled))
	names = append(names, enabled...)
	for _, n := range disabled {
		names = append(names, n+" (disabled)")
	}
	sort.Strings(names)
	return names, nil
}

func (m *Manager) scan() (enabled, disabled []string, err error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrFilesystem, m.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch ext := filepath.Ext(e.Name()); ext {
		case EnabledExt:
			enabled = append(enabled, strings.TrimSuffix(e.Name(), ext))
		case DisabledExt:
			disabled = append(disabled, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(enabled)
	sort.Strings(disabled)
	return enabled, disabled, nil
}

// plugin returns the path of name with ext, accepting name with or
// without its extension.
func (m *Manager) plugin(name, ext string) (string, error) {
	stem := strings.TrimSuffix(strings.TrimSuffix(name, EnabledExt), DisabledExt)
	if err := server.ValidName(stem); err != nil {
		return "", err
	}
	return m.join(stem + ext)
}

func (m *Manager) join(name string) (string, error) {
	if err := server.ValidName(name); err != nil {
		return "", err
	}
	path, err := securejoin.SecureJoin(m.dir, name)
	if err != nil {
		return "", errors.Wrap(errors.ErrPathEscape, name, err)
	}
	return path, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
