// Package server binds a server directory under the repository root and
// owns everything that lives directly in it: the core artifact, the memory
// limits it runs with and the EULA marker.
package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ISOnRM/minecraft-server/internal/errors"
)

// Root is the fixed directory every server directory lives directly under.
type Root struct {
	path     string
	reserved []string
}

// NewRoot resolves path (which must be an existing directory) as the
// repository root. Reserved paths can never be bound as server directories.
func NewRoot(path string, reserved ...string) (*Root, error) {
	abs, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrNotADirectory, abs, "root %s is not a directory", abs)
	}

	r := &Root{path: abs}
	for _, p := range reserved {
		if p == "" {
			continue
		}
		rp, err := resolvePath(p)
		if err != nil {
			return nil, fmt.Errorf("resolving reserved path %s: %w", p, err)
		}
		r.reserved = append(r.reserved, rp)
	}
	return r, nil
}

// Path returns the absolute root path.
func (r *Root) Path() string { return r.path }

// Resolve validates raw and returns the absolute path it names under the
// root without touching the filesystem. raw must be a single relative path
// component.
func (r *Root) Resolve(raw string) (string, error) {
	name, err := singleComponent(raw)
	if err != nil {
		return "", err
	}

	joined := filepath.Join(r.path, name)
	resolved, err := resolvePath(joined)
	if err != nil {
		return "", errors.Wrap(errors.ErrNotADirectory, joined, err)
	}
	if !within(r.path, resolved) {
		return "", errors.Newf(errors.ErrPathEscape, resolved, "%s has to be in %s", resolved, r.path)
	}
	for _, p := range r.reserved {
		if resolved == p {
			return "", errors.Newf(errors.ErrReservedPath, resolved, "%s is reserved, provide another directory", resolved)
		}
	}
	return resolved, nil
}

// Bind resolves raw and makes sure it is a directory, creating it when
// absent. Binding an existing directory leaves it untouched.
func (r *Root) Bind(raw string) (Dir, error) {
	path, err := r.Resolve(raw)
	if err != nil {
		return Dir{}, err
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return Dir{}, errors.Newf(errors.ErrNotADirectory, path, "%s is not a directory", path)
		}
	case os.IsNotExist(err):
		if err := os.Mkdir(path, 0o755); err != nil {
			return Dir{}, errors.Wrap(errors.ErrFilesystem, path, err)
		}
	default:
		return Dir{}, errors.Wrap(errors.ErrFilesystem, path, err)
	}
	return Dir{path: path}, nil
}

// Dir is a validated server directory. The zero value is unbound.
type Dir struct {
	path string
}

// Path returns the absolute directory path.
func (d Dir) Path() string { return d.path }

// Name returns the directory's base name.
func (d Dir) Name() string { return filepath.Base(d.path) }

// IsZero reports whether d was never bound.
func (d Dir) IsZero() bool { return d.path == "" }

// Join returns a path below the directory.
func (d Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

func (d Dir) String() string { return d.path }

// ValidName checks that name is a single relative path component, as
// required for every file name derived from user input.
func ValidName(name string) error {
	_, err := singleComponent(name)
	if err != nil {
		return errors.Newf(errors.ErrInvalidName, "", "%q must be a single name, like 'world1'", name)
	}
	return nil
}

func singleComponent(raw string) (string, error) {
	if raw == "" || filepath.IsAbs(raw) || filepath.VolumeName(raw) != "" {
		return "", errors.Newf(errors.ErrInvalidPathShape, "", "%q must be a single directory name, like 'dir'", raw)
	}
	clean := filepath.Clean(raw)
	if clean == "." || clean == ".." || strings.ContainsAny(clean, `/\`) {
		return "", errors.Newf(errors.ErrInvalidPathShape, "", "%q must be a single directory name, like 'dir'", raw)
	}
	return clean, nil
}

// resolvePath returns the absolute form of p with symlinks evaluated. A
// missing final element is allowed; its parent is still resolved.
func resolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	if _, lerr := os.Lstat(abs); lerr == nil {
		// dangling symlink
		return "", fmt.Errorf("%s: %w", abs, err)
	}
	parent, err := resolvePath(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, filepath.Base(abs)), nil
}

// within reports whether p is strictly below root.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}
