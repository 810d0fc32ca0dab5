package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ISOnRM/minecraft-server/internal/plugins"
)

func (f *Facade) pluginManager(dirName string) (*plugins.Manager, error) {
	dir, err := f.bind(dirName)
	if err != nil {
		return nil, err
	}
	return plugins.New(dir, f.Downloader, f.Output)
}

// DownloadPlugin installs a plugin from url.
func (f *Facade) DownloadPlugin(ctx context.Context, dirName, url string) bool {
	return f.run("plugin.download", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		_, err = m.Download(ctx, url)
		return err
	})
}

// DownloadHangarPlugin installs the latest release of a Hangar project.
func (f *Facade) DownloadHangarPlugin(ctx context.Context, dirName, project string) bool {
	return f.run("plugin.hangar", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		_, err = m.DownloadHangar(ctx, project)
		return err
	})
}

// BulkPlugins installs every URL listed in file. Individual failures are
// reported inline; the operation fails only if any item did.
func (f *Facade) BulkPlugins(ctx context.Context, dirName, file string) bool {
	return f.run("plugin.bulk", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		results, err := m.DownloadBulkFile(ctx, file)
		if err != nil {
			return err
		}
		return bulkError(log, results)
	})
}

func bulkError(log *slog.Logger, results []plugins.BulkResult) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info("bulk download finished", "total", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d plugin downloads failed", failed, len(results))
	}
	return nil
}

// RemovePlugin deletes the enabled plugin name.
func (f *Facade) RemovePlugin(dirName, name string) bool {
	return f.run("plugin.remove", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		if err := m.Remove(name); err != nil {
			return err
		}
		f.Output.Success("%s removed", name)
		return nil
	})
}

// RemoveAllPlugins deletes every enabled plugin.
func (f *Facade) RemoveAllPlugins(dirName string) bool {
	return f.run("plugin.remove_all", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		removed, err := m.RemoveAll()
		if err != nil {
			return err
		}
		for _, n := range removed {
			f.Output.Success("%s removed", n)
		}
		return nil
	})
}

// TogglePlugin disables or enables a plugin.
func (f *Facade) TogglePlugin(dirName, name string, disable bool) bool {
	return f.run("plugin.toggle", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		if err := m.Toggle(name, disable); err != nil {
			return err
		}
		state := "enabled"
		if disable {
			state = "disabled"
		}
		f.Output.Success("%s %s", name, state)
		return nil
	})
}

// ListPlugins prints every plugin and its state.
func (f *Facade) ListPlugins(dirName string) bool {
	return f.run("plugin.list", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		names, err := m.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			f.Output.Info("No plugins in %s", m.Path())
			return nil
		}
		for _, n := range names {
			f.Output.Plain("%s", n)
		}
		return nil
	})
}
