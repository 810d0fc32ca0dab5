package main

import (
	"os"

	"github.com/ISOnRM/minecraft-server/internal/cli"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], cli.Options{Version: version + " (" + commit + ")"}))
}
