package management

import (
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/server"
)

const (
	// WorldPrefix marks live world directories (world, world_nether, ...).
	WorldPrefix = "world"
	// ArchiveExt is the world snapshot container extension.
	ArchiveExt = ".tar"
)

// Snapshot is a packed world archive in a server directory.
type Snapshot struct {
	Name string
	Path string
	Dirs []string
}

// LiveWorlds returns the names of the live world directories in dir,
// sorted. It is rescanned on every call. A symlink to a directory counts;
// Pack archives the link itself, not its target.
func LiveWorlds(dir server.Dir) ([]string, error) {
	entries, err := os.ReadDir(dir.Path())
	if err != nil {
		return nil, errors.Wrap(errors.ErrFilesystem, dir.Path(), err)
	}
	var found []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), WorldPrefix) {
			continue
		}
		if info, err := os.Stat(dir.Join(e.Name())); err == nil && info.IsDir() {
			found = append(found, e.Name())
		}
	}
	return found, nil
}

// Pack archives every live world into <name>.tar and deletes the live
// directories, leaving the archive as the only copy. It returns a nil
// Snapshot and no error when there is nothing to pack.
func Pack(dir server.Dir, name string) (*Snapshot, error) {
	archive, err := archivePath(dir, name)
	if err != nil {
		return nil, err
	}
	name = snapshotName(name)

	if _, err := os.Lstat(archive); err == nil {
		return nil, errors.Newf(errors.ErrSnapshotNameCollision, archive, "world with the same name exists: %s", name)
	}

	live, err := LiveWorlds(dir)
	if err != nil {
		return nil, err
	}
	if len(live) == 0 {
		slog.Info("no live world to pack", "dir", dir.Path())
		return nil, nil
	}

	if err := writeTar(archive, dir.Path(), live); err != nil {
		return nil, errors.Wrap(errors.ErrArchiveFailed, archive, err)
	}
	for _, w := range live {
		if err := os.RemoveAll(dir.Join(w)); err != nil {
			return nil, errors.Wrap(errors.ErrFilesystem, dir.Join(w), err)
		}
	}

	slog.Info("world packed", "archive", archive, "dirs", live)
	return &Snapshot{Name: name, Path: archive, Dirs: live}, nil
}

// Unpack restores <name>.tar into dir and deletes the archive. A live
// world must not exist; pack it first.
func Unpack(dir server.Dir, name string) (*Snapshot, error) {
	archive, err := archivePath(dir, name)
	if err != nil {
		return nil, err
	}
	name = snapshotName(name)

	live, err := LiveWorlds(dir)
	if err != nil {
		return nil, err
	}
	if len(live) > 0 {
		return nil, errors.Newf(errors.ErrLiveWorldExists, dir.Path(),
			"you have to save your current world first (%s)", strings.Join(live, ", "))
	}

	if !isFile(archive) {
		return nil, errors.Newf(errors.ErrSnapshotNotFound, archive, "world %s was not found", name)
	}

	dirs, err := extractTar(archive, dir.Path())
	if err != nil {
		return nil, errors.Wrap(errors.ErrArchiveFailed, archive, err)
	}
	if err := os.Remove(archive); err != nil {
		return nil, errors.Wrap(errors.ErrFilesystem, archive, err)
	}

	slog.Info("world unpacked", "archive", archive, "dirs", dirs)
	return &Snapshot{Name: name, Path: archive, Dirs: dirs}, nil
}

// RemoveSnapshot deletes the named world archive.
func RemoveSnapshot(dir server.Dir, name string) error {
	archive, err := archivePath(dir, name)
	if err != nil {
		return err
	}
	if !isFile(archive) {
		return errors.Newf(errors.ErrSnapshotNotFound, archive, "world %s was not found", snapshotName(name))
	}
	if err := os.Remove(archive); err != nil {
		return errors.Wrap(errors.ErrFilesystem, archive, err)
	}
	slog.Info("world archive removed", "archive", archive)
	return nil
}

// ListSnapshots returns the names of the world archives in dir, sorted.
func ListSnapshots(dir server.Dir) ([]string, error) {
	entries, err := os.ReadDir(dir.Path())
	if err != nil {
		return nil, errors.Wrap(errors.ErrFilesystem, dir.Path(), err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ArchiveExt) || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ArchiveExt))
	}
	sort.Strings(names)
	return names, nil
}

func snapshotName(name string) string {
	return strings.TrimSuffix(name, ArchiveExt)
}

func archivePath(dir server.Dir, name string) (string, error) {
	if dir.IsZero() {
		return "", errors.ErrMissingServerDirectory
	}
	if err := server.ValidName(name); err != nil {
		return "", err
	}
	base := snapshotName(name)
	if base == "" || strings.HasPrefix(base, ".") {
		return "", errors.Newf(errors.ErrInvalidName, "", "invalid world name %q", name)
	}
	return dir.Join(base + ArchiveExt), nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
