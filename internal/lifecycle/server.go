package lifecycle

import (
	"context"
	"log/slog"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/management"
	"github.com/ISOnRM/minecraft-server/internal/server"
)

// InstallCore downloads a core from url into the server directory.
func (f *Facade) InstallCore(ctx context.Context, dirName, url string) bool {
	return f.run("core.install", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		core, err := f.Installer.FetchByURL(ctx, dir, url)
		if err != nil {
			return err
		}
		log.Info("core installed", "dir", dir.Path(), "core", core.Name())
		return nil
	})
}

// InstallPaper downloads a Paper build; version and build may be "latest".
func (f *Facade) InstallPaper(ctx context.Context, dirName, version, build string) bool {
	return f.run("core.install_paper", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		core, err := f.Installer.FetchPaperBuild(ctx, dir, version, build)
		if err != nil {
			return err
		}
		log.Info("core installed", "dir", dir.Path(), "core", core.Name())
		return nil
	})
}

// RemoveCore deletes the named core, or every core when name is empty.
func (f *Facade) RemoveCore(dirName, name string) bool {
	return f.run("core.remove", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		if name != "" {
			if err := server.RemoveCore(dir, name); err != nil {
				return err
			}
			f.Output.Success("%s removed", name)
			return nil
		}

		removed, err := server.RemoveAllCores(dir)
		if err != nil {
			return err
		}
		if len(removed) == 0 {
			return errors.Newf(errors.ErrCoreNotFound, dir.Path(), "no cores found in %s", dir.Path())
		}
		for _, n := range removed {
			f.Output.Success("%s removed", n)
		}
		log.Info("cores removed", "dir", dir.Path(), "count", len(removed))
		return nil
	})
}

// FindCore prints the newest core in the server directory.
func (f *Facade) FindCore(dirName string) bool {
	return f.run("core.find", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		core, found, err := server.NewestCore(dir)
		if err != nil {
			return err
		}
		if !found {
			f.Output.Warn("No core found in %s", dir.Path())
			return nil
		}
		f.Output.Plain("%s", core.Path())
		return nil
	})
}

// StartOptions selects what Start launches.
type StartOptions struct {
	// Core is a core file inside the server directory; empty picks the
	// newest one.
	Core string
	// Java overrides the facade's runtime.
	Java   string
	MinRAM int
	MaxRAM int
}

// Start launches the server in the foreground and returns when it exits.
func (f *Facade) Start(ctx context.Context, dirName string, opts StartOptions) bool {
	return f.run("server.start", func(log *slog.Logger) error {
		return f.start(ctx, log, dirName, opts)
	})
}

func (f *Facade) start(ctx context.Context, log *slog.Logger, dirName string, opts StartOptions) error {
	dir, err := f.bind(dirName)
	if err != nil {
		return err
	}
	mem, err := server.NewMemory(opts.MinRAM, opts.MaxRAM)
	if err != nil {
		return err
	}

	var core server.Core
	if opts.Core != "" {
		if core, err = server.BindCore(dir, opts.Core); err != nil {
			return err
		}
	} else {
		newest, found, err := server.NewestCore(dir)
		if err != nil {
			return err
		}
		if !found {
			return errors.Newf(errors.ErrCoreMissing, dir.Path(), "no core found in %s, install one first", dir.Path())
		}
		core = newest
	}

	java := opts.Java
	if java == "" {
		java = f.Java
	}
	log.Info("launching", "dir", dir.Path(), "core", core.Name(), "java", java)
	return f.NewManager(java).Launch(ctx, dir, core, mem)
}

// RemoveServer deletes a whole server directory after checking it is one.
func (f *Facade) RemoveServer(dirName string) bool {
	return f.run("server.remove", func(log *slog.Logger) error {
		path, err := f.Root.Resolve(dirName)
		if err != nil {
			return err
		}
		if err := management.RemoveServer(path); err != nil {
			return err
		}
		f.Output.Success("%s removed", path)
		return nil
	})
}
