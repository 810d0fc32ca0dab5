package management

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/platform"
	"github.com/ISOnRM/minecraft-server/internal/server"
	"github.com/ISOnRM/minecraft-server/internal/ui"
)

// DefaultStopCommand is written to the server console on interrupt.
const DefaultStopCommand = "stop"

// Supervisor runs the server as a foreground child process and proxies the
// terminal to it.
//
// The first interrupt (or ctx cancellation) writes StopCommand to the
// server's console and waits for it to exit on its own. A second interrupt
// kills it, as does StopTimeout elapsing after the stop command when it is
// non-zero.
type Supervisor struct {
	Runtime     string
	Runner      platform.CommandRunner
	Output      *ui.UI
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	StopCommand string
	StopTimeout time.Duration

	notify     func(c chan<- os.Signal, sig ...os.Signal)
	stopNotify func(c chan<- os.Signal)
}

// NewSupervisor returns a Supervisor attached to the process's own
// standard streams.
func NewSupervisor(runtime string, runner platform.CommandRunner, output *ui.UI) *Supervisor {
	return &Supervisor{
		Runtime:     runtime,
		Runner:      runner,
		Output:      output,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		StopCommand: DefaultStopCommand,
		notify:      signal.Notify,
		stopNotify:  signal.Stop,
	}
}

// LaunchArgs returns the runtime arguments for core: heap flags, the core
// jar and --nogui.
func LaunchArgs(core server.Core, mem server.Memory) []string {
	args := mem.Args()
	return append(args, "-jar", core.Name(), "--nogui")
}

// Launch starts the server in dir and blocks until it exits. The exit code
// is reported but never turned into an error.
func (s *Supervisor) Launch(ctx context.Context, dir server.Dir, core server.Core, mem server.Memory) error {
	if dir.IsZero() {
		return errors.ErrMissingServerDirectory
	}
	if mem.IsZero() {
		return errors.Newf(errors.ErrInvalidRange, "", "memory limits were not validated")
	}
	if core.IsZero() || !core.Exists() {
		return errors.Newf(errors.ErrCoreMissing, core.Path(), "core %s does not exist", core.Path())
	}
	if !s.Runner.CommandExists(s.Runtime) {
		return errors.Newf(errors.ErrRuntimeMissing, s.Runtime, "runtime %q not found", s.Runtime)
	}
	wrote, err := server.AcceptEULA(dir.Path())
	if err != nil {
		return errors.Wrap(errors.ErrFilesystem, dir.Join(server.EULAFile), err)
	}
	if wrote {
		s.Output.Info("EULA accepted")
	}

	cmd := exec.Command(s.Runtime, LaunchArgs(core, mem)...)
	cmd.Dir = dir.Path()
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	detachSignals(cmd)

	pipe, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(errors.ErrProcessFailed, s.Runtime, err)
	}
	console := &consoleInput{w: pipe}

	sigs := make(chan os.Signal, 2)
	s.notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer s.stopNotify(sigs)

	slog.Debug("exec", "cmd", s.Runtime, "args", cmd.Args[1:], "dir", cmd.Dir)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrProcessFailed, s.Runtime, err)
	}
	slog.Info("server started", "pid", cmd.Process.Pid, "dir", dir.Path(), "core", core.Name(),
		"min_gb", mem.Min(), "max_gb", mem.Max())
	s.Output.PrintStartBanner(&ui.StartSummary{
		ServerDir: dir.Name(),
		Core:      core.Name(),
		MinRAM:    mem.Min(),
		MaxRAM:    mem.Max(),
	})

	if s.Stdin != nil {
		go func() { _, _ = io.Copy(console, s.Stdin) }()
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	return s.supervise(ctx, cmd, console, sigs, done)
}

func (s *Supervisor) supervise(ctx context.Context, cmd *exec.Cmd, console *consoleInput, sigs <-chan os.Signal, done <-chan error) error {
	var (
		stopping bool
		deadline <-chan time.Time
		ctxDone  = ctx.Done()
	)

	stop := func(reason string) {
		stopping = true
		s.Output.PrintStopBanner()
		slog.Info("stopping server", "reason", reason, "pid", cmd.Process.Pid)
		if err := console.Command(s.StopCommand); err != nil {
			slog.Warn("server console unavailable", "err", err)
		}
		if s.StopTimeout > 0 {
			deadline = time.After(s.StopTimeout)
		}
	}
	kill := func(reason string) {
		s.Output.Warn("Killing the server (%s)", reason)
		slog.Warn("killing server", "reason", reason, "pid", cmd.Process.Pid)
		_ = cmd.Process.Kill()
	}

	for {
		select {
		case err := <-done:
			return s.exited(err)
		case sig := <-sigs:
			if !stopping {
				stop(sig.String())
				continue
			}
			kill("second " + sig.String())
		case <-ctxDone:
			ctxDone = nil
			if !stopping {
				stop(ctx.Err().Error())
			}
		case <-deadline:
			deadline = nil
			kill("stop timeout " + s.StopTimeout.String())
		}
	}
}

func (s *Supervisor) exited(err error) error {
	if err == nil {
		slog.Info("server exited", "code", 0)
		s.Output.Success("Server stopped")
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		slog.Info("server exited", "code", exitErr.ExitCode(), "state", exitErr.String())
		s.Output.Warn("Server exited: %s", exitErr.String())
		return nil
	}
	return errors.Wrap(errors.ErrProcessFailed, s.Runtime, err)
}

// consoleInput serializes writes from the terminal proxy and the stop
// command onto the child's stdin.
type consoleInput struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *consoleInput) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

// Command writes one console line.
func (c *consoleInput) Command(line string) error {
	_, err := c.Write([]byte(line + "\n"))
	return err
}

// RemoveServer deletes a server directory and everything in it. The
// directory must contain the EULA marker, which proves it is a server
// directory rather than an arbitrary folder.
func RemoveServer(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || !server.HasEULA(path) {
		return errors.Newf(errors.ErrNotAServerDirectory, path, "%s is not a server dir", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrap(errors.ErrFilesystem, path, err)
	}
	slog.Info("server directory removed", "dir", path)
	return nil
}
