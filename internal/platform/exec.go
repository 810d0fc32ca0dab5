package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
)

// CommandRunner abstracts shell-out operations for testability.
type CommandRunner interface {
	RunWithOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	CommandExists(name string) bool
}

// OSCommandRunner executes real system commands.
type OSCommandRunner struct{}

// NewOSCommandRunner returns a CommandRunner that executes real system commands.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// RunWithOutput executes a system command and returns its combined
// stdout and stderr. Java prints its version banner on stderr.
func (r *OSCommandRunner) RunWithOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	slog.Debug("exec", "cmd", name, "args", args)
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s %v: %w: %s", name, args, err, out)
	}
	return out, nil
}

// CommandExists checks whether a command is available on the system PATH.
// Paths containing a separator are checked directly.
func (r *OSCommandRunner) CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// MockRunner records commands for testing without executing them. The maps
// are read-only once a test starts calling it.
type MockRunner struct {
	mu        sync.Mutex
	Commands  []MockCommand
	OutputMap map[string][]byte
	ErrorMap  map[string]error
	ExistsMap map[string]bool
}

// MockCommand records a single command invocation.
type MockCommand struct {
	Name string
	Args []string
}

// NewMockRunner creates a MockRunner with empty state.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		OutputMap: make(map[string][]byte),
		ErrorMap:  make(map[string]error),
		ExistsMap: make(map[string]bool),
	}
}

// Key returns the map key used for OutputMap / ErrorMap lookups.
func (m *MockRunner) Key(name string, args ...string) string {
	return fmt.Sprintf("%s %v", name, args)
}

// RunWithOutput records the command and returns preconfigured output or error.
func (m *MockRunner) RunWithOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, MockCommand{Name: name, Args: args})
	m.mu.Unlock()
	if err, ok := m.ErrorMap[m.Key(name, args...)]; ok {
		return nil, err
	}
	if out, ok := m.OutputMap[m.Key(name, args...)]; ok {
		return out, nil
	}
	return nil, nil
}

// CommandExists reports whether name was marked present in ExistsMap.
func (m *MockRunner) CommandExists(name string) bool {
	return m.ExistsMap[name]
}
