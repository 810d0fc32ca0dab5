package cli

import (
	"context"
	"fmt"

	"github.com/ISOnRM/minecraft-server/internal/lifecycle"
)

// PluginCmd groups plugin subcommands.
type PluginCmd struct {
	Download  PluginDownloadCmd  `cmd:"" help:"Download a plugin by URL or Hangar project"`
	Bulk      PluginBulkCmd      `cmd:"" help:"Download every URL listed in a file"`
	Remove    PluginRemoveCmd    `cmd:"" help:"Remove a plugin"`
	RemoveAll PluginRemoveAllCmd `cmd:"remove-all" help:"Remove every enabled plugin"`
	Toggle    PluginToggleCmd    `cmd:"" help:"Enable or disable a plugin"`
	List      PluginListCmd      `cmd:"" help:"List plugins"`
}

// PluginDownloadCmd downloads one plugin.
type PluginDownloadCmd struct {
	Dir    string `help:"Server directory name" required:""`
	URL    string `name:"url" help:"Plugin download URL" xor:"source"`
	Hangar string `help:"Hangar project name (latest Paper release)" xor:"source"`
}

// Validate requires a source.
func (cmd *PluginDownloadCmd) Validate() error {
	if cmd.URL == "" && cmd.Hangar == "" {
		return fmt.Errorf("one of --url or --hangar is required")
	}
	return nil
}

// Run downloads the plugin.
func (cmd *PluginDownloadCmd) Run(ctx context.Context, f *lifecycle.Facade) error {
	if cmd.Hangar != "" {
		return result(f.DownloadHangarPlugin(ctx, cmd.Dir, cmd.Hangar))
	}
	return result(f.DownloadPlugin(ctx, cmd.Dir, cmd.URL))
}

// PluginBulkCmd downloads plugins listed in a file.
type PluginBulkCmd struct {
	Dir  string `help:"Server directory name" required:""`
	File string `help:"File with one plugin URL per line" required:"" type:"path"`
}

// Run downloads the plugins.
func (cmd *PluginBulkCmd) Run(ctx context.Context, f *lifecycle.Facade) error {
	return result(f.BulkPlugins(ctx, cmd.Dir, cmd.File))
}

// PluginRemoveCmd removes one plugin.
type PluginRemoveCmd struct {
	Dir  string `help:"Server directory name" required:""`
	Name string `help:"Plugin name" required:""`
}

// Run removes the plugin.
func (cmd *PluginRemoveCmd) Run(f *lifecycle.Facade) error {
	return result(f.RemovePlugin(cmd.Dir, cmd.Name))
}

// PluginRemoveAllCmd removes every enabled plugin.
type PluginRemoveAllCmd struct {
	Dir string `help:"Server directory name" required:""`
}

// Run removes the plugins.
func (cmd *PluginRemoveAllCmd) Run(f *lifecycle.Facade) error {
	return result(f.RemoveAllPlugins(cmd.Dir))
}

// PluginToggleCmd enables or disables a plugin.
type PluginToggleCmd struct {
	Dir     string `help:"Server directory name" required:""`
	Name    string `help:"Plugin name" required:""`
	Disable bool   `help:"Disable the plugin instead of enabling it"`
}

// Run toggles the plugin.
func (cmd *PluginToggleCmd) Run(f *lifecycle.Facade) error {
	return result(f.TogglePlugin(cmd.Dir, cmd.Name, cmd.Disable))
}

// PluginListCmd lists plugins.
type PluginListCmd struct {
	Dir string `help:"Server directory name" required:""`
}

// Run lists the plugins.
func (cmd *PluginListCmd) Run(f *lifecycle.Facade) error {
	return result(f.ListPlugins(cmd.Dir))
}
