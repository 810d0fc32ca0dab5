package server

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ISOnRM/minecraft-server/internal/errors"
)

// CoreExt is the extension of executable core files.
const CoreExt = ".jar"

// Core is a server core artifact bound to a server directory. The file does
// not have to exist yet; Launch checks that.
type Core struct {
	path string
}

// BindCore validates that candidate resolves to a path inside dir. A
// relative candidate is taken relative to dir.
func BindCore(dir Dir, candidate string) (Core, error) {
	if dir.IsZero() {
		return Core{}, errors.ErrMissingServerDirectory
	}
	if candidate == "" {
		return Core{}, errors.Newf(errors.ErrCoreOutsideServerDirectory, "", "empty core path")
	}
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(dir.Path(), candidate)
	}
	resolved, err := resolvePath(candidate)
	if err != nil {
		return Core{}, errors.Wrap(errors.ErrCoreOutsideServerDirectory, candidate, err)
	}
	if !within(dir.Path(), resolved) {
		return Core{}, errors.Newf(errors.ErrCoreOutsideServerDirectory, resolved, "%s is not in %s", resolved, dir.Path())
	}
	return Core{path: resolved}, nil
}

// Path returns the absolute core path.
func (c Core) Path() string { return c.path }

// Name returns the core's file name.
func (c Core) Name() string { return filepath.Base(c.path) }

// Stem returns the core's file name without its extension.
func (c Core) Stem() string {
	name := c.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IsZero reports whether c was never bound.
func (c Core) IsZero() bool { return c.path == "" }

// Exists reports whether the core file is present.
func (c Core) Exists() bool {
	info, err := os.Stat(c.path)
	return err == nil && !info.IsDir()
}

// NewestCore returns the core file in dir whose name sorts last. The order
// is plain lexicographic on file names, so "a-2.jar" beats "a-10.jar".
// The bool is false when dir holds no cores.
func NewestCore(dir Dir) (Core, bool, error) {
	names, err := coreNames(dir)
	if err != nil {
		return Core{}, false, err
	}
	if len(names) == 0 {
		return Core{}, false, nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	core, err := BindCore(dir, names[0])
	if err != nil {
		return Core{}, false, err
	}
	return core, true, nil
}

// RemoveCore deletes the named core file from dir. Only CoreExt files
// count as cores.
func RemoveCore(dir Dir, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if filepath.Ext(name) != CoreExt {
		return errors.Newf(errors.ErrInvalidName, "", "%q is not a %s core", name, CoreExt)
	}
	path := dir.Join(name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return errors.Newf(errors.ErrCoreNotFound, path, "%s does not exist", path)
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrap(errors.ErrFilesystem, path, err)
	}
	return nil
}

// RemoveAllCores deletes every core file in dir and returns their names.
func RemoveAllCores(dir Dir) ([]string, error) {
	names, err := coreNames(dir)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	for _, name := range names {
		if err := os.Remove(dir.Join(name)); err != nil {
			return nil, errors.Wrap(errors.ErrFilesystem, dir.Join(name), err)
		}
	}
	return names, nil
}

func coreNames(dir Dir) ([]string, error) {
	if dir.IsZero() {
		return nil, errors.ErrMissingServerDirectory
	}
	entries, err := os.ReadDir(dir.Path())
	if err != nil {
		return nil, errors.Wrap(errors.ErrFilesystem, dir.Path(), err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != CoreExt {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
