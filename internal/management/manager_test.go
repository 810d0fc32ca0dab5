package management_test

import (
	"github.com/ISOnRM/minecraft-server/internal/management"
	"github.com/ISOnRM/minecraft-server/internal/platform"
	"github.com/ISOnRM/minecraft-server/internal/ui"
)

// Compile-time interface compliance checks.
var _ management.ServerManager = (*management.Supervisor)(nil)

var _ management.ServerManager = management.NewSupervisor("java", platform.NewMockRunner(), ui.New(false))
