// Package cli is the mcserver command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/lifecycle"
	"github.com/ISOnRM/minecraft-server/internal/logging"
	"github.com/ISOnRM/minecraft-server/internal/server"
	"github.com/ISOnRM/minecraft-server/internal/ui"
)

// StateDir holds the tool's own files under the root. It can never be bound
// as a server directory.
const StateDir = ".mcserver"

// ErrFailed is returned by a command whose operation failed. The failure
// has already been reported.
var ErrFailed = errors.New("operation failed")

// Globals holds flags shared by all subcommands.
type Globals struct {
	Root      string           `help:"Directory server directories live in (default: current directory)" env:"MCSERVER_ROOT" default:""`
	Java      string           `help:"Java runtime executable" env:"MCSERVER_JAVA" default:"java"`
	LogLevel  string           `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	LogFormat string           `help:"Log format" enum:"text,json" default:"text"`
	LogFile   string           `help:"Log file (default: <root>/.mcserver/logs/mcserver.log, '-' for stderr)" default:""`
	NoColor   bool             `help:"Disable colored output"`
	Version   kong.VersionFlag `help:"Print version" short:"v"`
}

// AfterApply sets Root to the working directory when the user hasn't
// provided one.
func (g *Globals) AfterApply() error {
	if g.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		g.Root = wd
	}
	return nil
}

func (g *Globals) logFile() string {
	switch g.LogFile {
	case "":
		return filepath.Join(g.Root, StateDir, "logs", "mcserver.log")
	case "-":
		return ""
	default:
		return g.LogFile
	}
}

// CLI is the top-level command tree parsed by Kong.
type CLI struct {
	Globals

	Core       CoreCmd       `cmd:"" help:"Install, find or remove server cores"`
	Server     ServerCmd     `cmd:"" help:"Start or remove a server"`
	World      WorldCmd      `cmd:"" help:"Pack, unpack, remove or list saved worlds"`
	Plugin     PluginCmd     `cmd:"" help:"Download, remove, toggle or list plugins"`
	Properties PropertiesCmd `cmd:"" help:"Edit server.properties"`
	Config     ConfigCmd     `cmd:"" help:"Drive a server from a config file"`
	Runtime    RuntimeCmd    `cmd:"" help:"Show the detected Java version"`
}

// Options configures Main for tests.
type Options struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
	Exit    func(int)
	// Facade, when set, replaces the facade built from the flags.
	Facade func(root *server.Root, g *Globals, output *ui.UI) *lifecycle.Facade
}

// Main parses args, runs the selected command and returns the process exit
// code.
func Main(args []string, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	var root CLI
	parser, err := kong.New(&root,
		kong.Name("mcserver"),
		kong.Description("Manage a Minecraft server living in a directory under the root."),
		kong.UsageOnError(),
		kong.Vars{"version": opts.Version},
		kong.Writers(opts.Stdout, opts.Stderr),
		kong.Exit(opts.Exit),
	)
	if err != nil {
		fmt.Fprintln(opts.Stderr, err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
		return 2
	}

	var output *ui.UI
	if root.NoColor || opts.Stdout != os.Stdout {
		output = ui.NewWriter(opts.Stdout, false)
	} else {
		output = ui.Default()
	}

	logOpts := logging.DefaultOptions(root.logFile())
	logOpts.Level = root.LogLevel
	logOpts.Format = root.LogFormat
	logOpts.Stderr = opts.Stderr
	_, closer, err := logging.Init(logOpts)
	if err != nil {
		output.Error("%v", err)
		return 1
	}
	defer closer.Close()

	srvRoot, err := newRoot(root.Root)
	if err != nil {
		output.Error("%v", err)
		return 1
	}

	build := opts.Facade
	if build == nil {
		build = defaultFacade
	}
	facade := build(srvRoot, &root.Globals, output)

	kctx.BindTo(context.Background(), (*context.Context)(nil))
	if err := kctx.Run(&root.Globals, facade, output); err != nil {
		if !errors.Is(err, ErrFailed) {
			output.Error("%v", err)
		}
		return 1
	}
	return 0
}

func defaultFacade(root *server.Root, g *Globals, output *ui.UI) *lifecycle.Facade {
	return lifecycle.New(root, g.Java, output)
}

// newRoot resolves the root and reserves the tool's own locations: the
// directory holding the executable and the state directory.
func newRoot(path string) (*server.Root, error) {
	reserved := []string{filepath.Join(path, StateDir)}
	if exe, err := os.Executable(); err == nil {
		reserved = append(reserved, filepath.Dir(exe))
	}
	return server.NewRoot(path, reserved...)
}

func result(ok bool) error {
	if !ok {
		return ErrFailed
	}
	return nil
}
