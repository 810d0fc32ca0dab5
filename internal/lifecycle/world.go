package lifecycle

import (
	"log/slog"

	"github.com/ISOnRM/minecraft-server/internal/management"
)

// PackWorld archives the live world under name.
func (f *Facade) PackWorld(dirName, name string) bool {
	return f.run("world.pack", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		snap, err := management.Pack(dir, name)
		if err != nil {
			return err
		}
		if snap == nil {
			f.Output.Warn("No world to pack in %s", dir.Path())
			return nil
		}
		f.Output.Success("World packed: %s", snap.Path)
		return nil
	})
}

// UnpackWorld restores the archive name as the live world.
func (f *Facade) UnpackWorld(dirName, name string) bool {
	return f.run("world.unpack", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		snap, err := management.Unpack(dir, name)
		if err != nil {
			return err
		}
		f.Output.Success("World %s unpacked", snap.Name)
		return nil
	})
}

// RemoveWorld deletes the archive name.
func (f *Facade) RemoveWorld(dirName, name string) bool {
	return f.run("world.remove", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		if err := management.RemoveSnapshot(dir, name); err != nil {
			return err
		}
		f.Output.Success("World %s removed", name)
		return nil
	})
}

// ListWorlds prints the archived worlds.
func (f *Facade) ListWorlds(dirName string) bool {
	return f.run("world.list", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		names, err := management.ListSnapshots(dir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			f.Output.Info("No saved worlds in %s", dir.Path())
			return nil
		}
		for _, n := range names {
			f.Output.Plain("%s", n)
		}
		return nil
	})
}
