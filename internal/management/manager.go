package management

import (
	"context"

	"github.com/ISOnRM/minecraft-server/internal/server"
)

// ServerManager runs a bound server core in the foreground.
type ServerManager interface {
	// Launch starts the server and blocks until the process exits.
	Launch(ctx context.Context, dir server.Dir, core server.Core, mem server.Memory) error
}
