// Package lifecycle is the single place operation failures are contained.
//
// Every method runs one user-facing operation, logs it with an operation
// id, and turns any error (or panic) into a reported, non-fatal outcome:
// the method prints the failure and returns false. Nothing below this
// package swallows errors.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/ISOnRM/minecraft-server/internal/download"
	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/management"
	"github.com/ISOnRM/minecraft-server/internal/platform"
	"github.com/ISOnRM/minecraft-server/internal/server"
	"github.com/ISOnRM/minecraft-server/internal/ui"
)

// ManagerFactory returns the ServerManager that launches with runtime.
type ManagerFactory func(runtime string) management.ServerManager

// Facade wires the server components together behind contained operations.
type Facade struct {
	Root       *server.Root
	Installer  *server.Installer
	Downloader *download.Client
	Runner     platform.CommandRunner
	NewManager ManagerFactory
	// Java is the runtime executable used when a caller gives none.
	Java string
	// StopTimeout bounds graceful shutdown of a started server; zero waits
	// for as long as the server takes.
	StopTimeout time.Duration
	Output      *ui.UI
}

// New returns a Facade for root using real downloads and processes.
func New(root *server.Root, java string, output *ui.UI) *Facade {
	dl := download.New(nil)
	f := &Facade{
		Root:       root,
		Installer:  server.NewInstaller(dl, output),
		Downloader: dl,
		Runner:     platform.NewOSCommandRunner(),
		Java:       java,
		Output:     output,
	}
	f.NewManager = func(rt string) management.ServerManager {
		s := management.NewSupervisor(rt, f.Runner, f.Output)
		s.StopTimeout = f.StopTimeout
		return s
	}
	return f
}

// run executes fn as operation op and reports whether it succeeded.
func (f *Facade) run(op string, fn func(log *slog.Logger) error) (ok bool) {
	log := slog.With("op", op, "op_id", uuid.NewString())
	start := time.Now()
	log.Debug("operation started")

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = &errors.Error{
				Kind:    errors.KindExternalIO,
				Code:    "Panic",
				Message: fmt.Sprintf("unexpected failure: %v", r),
			}
			log.Error("operation panicked", "panic", r, "stack", string(debug.Stack()))
		}
		if err != nil {
			log.Error("operation failed",
				"kind", errors.KindOf(err).String(),
				"code", errors.CodeOf(err),
				"err", err,
				"elapsed", time.Since(start))
			f.Output.Error("%s: %v", op, err)
			ok = false
			return
		}
		log.Info("operation completed", "elapsed", time.Since(start))
		ok = true
	}()

	err = fn(log)
	return ok
}

func (f *Facade) bind(dirName string) (server.Dir, error) {
	if dirName == "" {
		return server.Dir{}, errors.ErrMissingServerDirectory
	}
	return f.Root.Bind(dirName)
}

// Runtime prints the major version of the configured Java runtime.
func (f *Facade) Runtime(ctx context.Context) bool {
	return f.run("runtime.check", func(log *slog.Logger) error {
		plat := platform.Detect(ctx, f.Runner)
		log.Debug("platform detected", "os", plat.OS, "distro", plat.Distro, "pkg", plat.PkgMgr, "arch", plat.Arch)
		if !f.Runner.CommandExists(f.Java) {
			if hint := plat.JavaInstallHint(); hint != "" {
				f.Output.Info("Install Java 21 with: %s", hint)
			}
			return errors.Newf(errors.ErrRuntimeMissing, f.Java, "runtime %q not found", f.Java)
		}
		major, err := platform.JavaVersion(ctx, f.Runner, f.Java)
		if err != nil {
			return errors.Wrap(errors.ErrProcessFailed, f.Java, err)
		}
		log.Info("runtime detected", "java", f.Java, "major", major)
		f.Output.Success("Java %d (%s) on %s/%s", major, f.Java, plat.OS, plat.Arch)
		return nil
	})
}
