package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ISOnRM/minecraft-server/internal/lifecycle"
)

// CoreCmd groups core subcommands.
type CoreCmd struct {
	Install      CoreInstallCmd      `cmd:"" help:"Download a core from a URL"`
	InstallPaper CoreInstallPaperCmd `cmd:"install-paper" help:"Download a Paper build"`
	Remove       CoreRemoveCmd       `cmd:"" help:"Remove one core, or all of them"`
	Find         CoreFindCmd         `cmd:"" help:"Print the newest core"`
}

// CoreInstallCmd downloads a core by URL.
type CoreInstallCmd struct {
	Dir string `help:"Server directory name" required:""`
	URL string `name:"url" help:"Core download URL" required:""`
}

// Run downloads the core.
func (cmd *CoreInstallCmd) Run(ctx context.Context, f *lifecycle.Facade) error {
	return result(f.InstallCore(ctx, cmd.Dir, cmd.URL))
}

// CoreInstallPaperCmd downloads a Paper build.
type CoreInstallPaperCmd struct {
	Dir     string `help:"Server directory name" required:""`
	Version string `name:"mc-version" help:"Minecraft version, or latest" default:"latest"`
	Build   string `help:"Paper build number, or latest" default:"latest"`
}

// Run downloads the Paper build.
func (cmd *CoreInstallPaperCmd) Run(ctx context.Context, f *lifecycle.Facade) error {
	return result(f.InstallPaper(ctx, cmd.Dir, cmd.Version, cmd.Build))
}

// CoreRemoveCmd removes cores.
type CoreRemoveCmd struct {
	Dir  string `help:"Server directory name" required:""`
	Name string `help:"Core file name; every core when omitted"`
}

// Run removes the cores.
func (cmd *CoreRemoveCmd) Run(f *lifecycle.Facade) error {
	return result(f.RemoveCore(cmd.Dir, cmd.Name))
}

// CoreFindCmd prints the newest core.
type CoreFindCmd struct {
	Dir string `help:"Server directory name" required:""`
}

// Run prints the core path.
func (cmd *CoreFindCmd) Run(f *lifecycle.Facade) error {
	return result(f.FindCore(cmd.Dir))
}

// ServerCmd groups server subcommands.
type ServerCmd struct {
	Start  ServerStartCmd  `cmd:"" help:"Run the server in the foreground (Ctrl+C stops it gracefully)"`
	Remove ServerRemoveCmd `cmd:"" help:"Delete a server directory"`
}

// ServerStartCmd launches the server.
type ServerStartCmd struct {
	Dir         string        `help:"Server directory name" required:""`
	Core        string        `help:"Core file inside the server directory (default: newest)"`
	RAM         []int         `name:"ram" help:"Min and max heap in GB" default:"2,4" sep:","`
	StopTimeout time.Duration `help:"Kill the server if it has not stopped this long after Ctrl+C (0 waits)" default:"0s"`
}

// Validate checks the --ram pair.
func (cmd *ServerStartCmd) Validate() error {
	if len(cmd.RAM) != 2 {
		return fmt.Errorf("--ram takes exactly two values, MIN,MAX")
	}
	return nil
}

// Run starts the server and blocks until it exits.
func (cmd *ServerStartCmd) Run(ctx context.Context, f *lifecycle.Facade) error {
	f.StopTimeout = cmd.StopTimeout
	return result(f.Start(ctx, cmd.Dir, lifecycle.StartOptions{
		Core:   cmd.Core,
		MinRAM: cmd.RAM[0],
		MaxRAM: cmd.RAM[1],
	}))
}

// ServerRemoveCmd deletes a server directory.
type ServerRemoveCmd struct {
	Dir string `help:"Server directory name" required:""`
}

// Run removes the directory.
func (cmd *ServerRemoveCmd) Run(f *lifecycle.Facade) error {
	return result(f.RemoveServer(cmd.Dir))
}

// WorldCmd groups world archive subcommands.
type WorldCmd struct {
	Pack   WorldPackCmd   `cmd:"" help:"Archive the live world and remove it"`
	Unpack WorldUnpackCmd `cmd:"" help:"Restore an archived world"`
	Remove WorldRemoveCmd `cmd:"" help:"Delete an archived world"`
	List   WorldListCmd   `cmd:"" help:"List archived worlds"`
}

// WorldPackCmd packs the live world.
type WorldPackCmd struct {
	Dir  string `help:"Server directory name" required:""`
	Name string `help:"Archive name" required:""`
}

// Run packs the world.
func (cmd *WorldPackCmd) Run(f *lifecycle.Facade) error {
	return result(f.PackWorld(cmd.Dir, cmd.Name))
}

// WorldUnpackCmd restores a world.
type WorldUnpackCmd struct {
	Dir  string `help:"Server directory name" required:""`
	Name string `help:"Archive name" required:""`
}

// Run unpacks the world.
func (cmd *WorldUnpackCmd) Run(f *lifecycle.Facade) error {
	return result(f.UnpackWorld(cmd.Dir, cmd.Name))
}

// WorldRemoveCmd deletes an archive.
type WorldRemoveCmd struct {
	Dir  string `help:"Server directory name" required:""`
	Name string `help:"Archive name" required:""`
}

// Run removes the archive.
func (cmd *WorldRemoveCmd) Run(f *lifecycle.Facade) error {
	return result(f.RemoveWorld(cmd.Dir, cmd.Name))
}

// WorldListCmd lists archives.
type WorldListCmd struct {
	Dir string `help:"Server directory name" required:""`
}

// Run lists the archives.
func (cmd *WorldListCmd) Run(f *lifecycle.Facade) error {
	return result(f.ListWorlds(cmd.Dir))
}

// PropertiesCmd groups server.properties subcommands.
type PropertiesCmd struct {
	ChangePort PropertiesChangePortCmd `cmd:"change-port" help:"Set server-port"`
	ChangeAny  PropertiesChangeAnyCmd  `cmd:"change-any" help:"Set any existing property"`
}

// PropertiesChangePortCmd sets the port.
type PropertiesChangePortCmd struct {
	Dir  string `help:"Server directory name" required:""`
	Port int    `help:"New port (1-65535)" required:""`
}

// Run sets the port.
func (cmd *PropertiesChangePortCmd) Run(f *lifecycle.Facade) error {
	return result(f.ChangePort(cmd.Dir, cmd.Port))
}

// PropertiesChangeAnyCmd sets a property.
type PropertiesChangeAnyCmd struct {
	Dir   string `help:"Server directory name" required:""`
	Param string `help:"Property name" required:""`
	Value string `help:"New value" required:""`
}

// Run sets the property.
func (cmd *PropertiesChangeAnyCmd) Run(f *lifecycle.Facade) error {
	return result(f.ChangeProperty(cmd.Dir, cmd.Param, cmd.Value))
}

// ConfigCmd groups config file subcommands.
type ConfigCmd struct {
	Apply ConfigApplyCmd `cmd:"" help:"Apply a JSON, YAML or TOML server config"`
}

// ConfigApplyCmd applies a config file.
type ConfigApplyCmd struct {
	File string `help:"Config file" required:"" type:"path"`
}

// Run applies the config.
func (cmd *ConfigApplyCmd) Run(ctx context.Context, f *lifecycle.Facade) error {
	return result(f.ApplyConfig(ctx, cmd.File))
}

// RuntimeCmd reports the Java runtime.
type RuntimeCmd struct{}

// Run prints the Java version.
func (cmd *RuntimeCmd) Run(ctx context.Context, f *lifecycle.Facade) error {
	return result(f.Runtime(ctx))
}
