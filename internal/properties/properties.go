// Package properties edits a server's server.properties file.
package properties

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/server"
)

const (
	// FileName is the server's key=value settings file.
	FileName = "server.properties"
	// PortKey is the listen port property.
	PortKey = "server-port"
)

var loadOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
	PreserveSurroundedQuote: true,
}

// File is an existing server.properties.
type File struct {
	path string
}

// Open returns the properties file of dir. It must already exist; the
// server writes it on first start.
func Open(dir server.Dir) (*File, error) {
	if dir.IsZero() {
		return nil, errors.ErrMissingServerDirectory
	}
	path := dir.Join(FileName)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, errors.Newf(errors.ErrPropertiesNotFound, path, "server properties file not found in %s", dir.Path())
	}
	return &File{path: path}, nil
}

// Path returns the file's location.
func (f *File) Path() string { return f.path }

// Value returns the current value of key.
func (f *File) Value(key string) (string, error) {
	cfg, err := ini.LoadSources(loadOptions, f.path)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", f.path, err)
	}
	sec := cfg.Section("")
	if !sec.HasKey(key) {
		return "", errors.Newf(errors.ErrPropertyNotFound, f.path, "property %q not found", key)
	}
	return sec.Key(key).String(), nil
}

// Set replaces the value of an existing key and returns the previous one.
// Only that key's line is rewritten; comments, order and every other line
// are kept verbatim.
func (f *File) Set(key, value string) (string, error) {
	if key == "" || strings.ContainsAny(key, "=\n") {
		return "", errors.Newf(errors.ErrInvalidName, "", "invalid property name %q", key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return "", errors.Newf(errors.ErrInvalidName, "", "property value must be a single line")
	}
	old, err := f.Value(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", errors.Wrap(errors.ErrFilesystem, f.path, err)
	}

	var (
		out   bytes.Buffer
		found bool
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !found {
			if k, _, ok := splitLine(line); ok && k == key {
				eq := strings.Index(line, "=")
				line = line[:eq+1] + value
				found = true
			}
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", f.path, err)
	}
	if !found {
		return "", errors.Newf(errors.ErrPropertyNotFound, f.path, "property %q not found", key)
	}

	if err := writeAtomic(f.path, out.Bytes()); err != nil {
		return "", errors.Wrap(errors.ErrFilesystem, f.path, err)
	}
	slog.Info("property changed", "file", f.path, "key", key, "old", old, "value", value)
	return old, nil
}

// SetPort changes server-port and returns the previous port value.
func (f *File) SetPort(port int) (string, error) {
	if port < 1 || port > 65535 {
		return "", errors.Newf(errors.ErrInvalidPort, "", "port %d must be between 1 and 65535", port)
	}
	return f.Set(PortKey, strconv.Itoa(port))
}

// splitLine parses a "key=value" line, skipping blanks and comments.
func splitLine(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
		return "", "", false
	}
	k, v, ok := strings.Cut(trimmed, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(k), v, true
}

func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
