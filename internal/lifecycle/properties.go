package lifecycle

import (
	"log/slog"

	"github.com/ISOnRM/minecraft-server/internal/properties"
)

// ChangePort sets server-port in server.properties.
func (f *Facade) ChangePort(dirName string, port int) bool {
	return f.run("properties.change_port", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		props, err := properties.Open(dir)
		if err != nil {
			return err
		}
		old, err := props.SetPort(port)
		if err != nil {
			return err
		}
		f.Output.Success("Port changed: %s -> %d", old, port)
		return nil
	})
}

// ChangeProperty sets an existing key in server.properties.
func (f *Facade) ChangeProperty(dirName, key, value string) bool {
	return f.run("properties.change_any", func(log *slog.Logger) error {
		dir, err := f.bind(dirName)
		if err != nil {
			return err
		}
		props, err := properties.Open(dir)
		if err != nil {
			return err
		}
		old, err := props.Set(key, value)
		if err != nil {
			return err
		}
		f.Output.Success("%s changed: %q -> %q", key, old, value)
		return nil
	})
}
