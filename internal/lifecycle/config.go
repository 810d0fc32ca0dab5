package lifecycle

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ISOnRM/minecraft-server/internal/config"
	"github.com/ISOnRM/minecraft-server/internal/plugins"
)

// ApplyConfig loads a config file and drives the same operations as the
// individual commands, in order: restore world, acquire core, install
// plugins, edit properties, start. A malformed file runs nothing. The
// first failing step stops the rest, except that plugin downloads all run
// before their failures are counted.
func (f *Facade) ApplyConfig(ctx context.Context, path string) bool {
	var cfg *config.ServerConfig
	if !f.run("config.load", func(log *slog.Logger) error {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		log.Info("config loaded", "file", path, "server_dir", cfg.ServerDir)
		f.Output.Step("Applying %s to %s", path, cfg.ServerDir)
		return nil
	}) {
		return false
	}

	dir := cfg.ServerDir
	steps := []func() bool{}

	if cfg.World.Unpack != "" {
		steps = append(steps, func() bool { return f.UnpackWorld(dir, cfg.World.Unpack) })
	}
	switch {
	case cfg.Core.URL != "":
		steps = append(steps, func() bool { return f.InstallCore(ctx, dir, cfg.Core.URL) })
	case cfg.Core.Paper.Version != "":
		steps = append(steps, func() bool {
			return f.InstallPaper(ctx, dir, cfg.Core.Paper.Version, cfg.Core.Paper.Build)
		})
	}
	if len(cfg.Plugins) > 0 {
		steps = append(steps, func() bool { return f.installPlugins(ctx, dir, cfg.Plugins) })
	}
	if cfg.Properties.Port != 0 {
		steps = append(steps, func() bool { return f.ChangePort(dir, cfg.Properties.Port) })
	}
	keys := make([]string, 0, len(cfg.Properties.Values))
	for k := range cfg.Properties.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		steps = append(steps, func() bool { return f.ChangeProperty(dir, k, cfg.Properties.Values[k]) })
	}
	if cfg.Start {
		steps = append(steps, func() bool {
			return f.Start(ctx, dir, StartOptions{
				Java:   cfg.JavaPath,
				MinRAM: cfg.Memory.Min,
				MaxRAM: cfg.Memory.Max,
			})
		})
	}

	for _, step := range steps {
		if !step() {
			return false
		}
	}
	return true
}

func (f *Facade) installPlugins(ctx context.Context, dirName string, urls []string) bool {
	return f.run("plugin.bulk", func(log *slog.Logger) error {
		m, err := f.pluginManager(dirName)
		if err != nil {
			return err
		}
		var results []plugins.BulkResult
		for _, u := range urls {
			path, err := m.Download(ctx, u)
			if err != nil {
				f.Output.Error("%s: %v", u, err)
			}
			results = append(results, plugins.BulkResult{URL: u, Path: path, Err: err})
		}
		return bulkError(log, results)
	})
}
