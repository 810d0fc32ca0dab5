package server

import (
	"os"
	"path/filepath"
)

// EULAFile is the license-acceptance marker. Its presence also marks a
// directory as a real server directory.
const EULAFile = "eula.txt"

// AcceptEULA writes eula.txt accepting the Minecraft EULA unless the file
// already exists. It reports whether the file was written.
func AcceptEULA(serverDir string) (bool, error) {
	path := filepath.Join(serverDir, EULAFile)
	if _, err := os.Lstat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte("eula=true\n"), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// HasEULA reports whether serverDir contains the marker.
func HasEULA(serverDir string) bool {
	_, err := os.Lstat(filepath.Join(serverDir, EULAFile))
	return err == nil
}
