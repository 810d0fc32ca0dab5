package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcceptEULA_Idempotent(t *testing.T) {
	dir := t.TempDir()

	wrote, err := AcceptEULA(dir)
	if err != nil || !wrote {
		t.Fatalf("AcceptEULA() = %v, %v; want true, nil", wrote, err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, EULAFile))
	if string(data) != "eula=true\n" {
		t.Errorf("eula.txt = %q", data)
	}

	if err := os.WriteFile(filepath.Join(dir, EULAFile), []byte("eula=true\n#edited"), 0o644); err != nil {
		t.Fatal(err)
	}
	wrote, err = AcceptEULA(dir)
	if err != nil || wrote {
		t.Fatalf("second AcceptEULA() = %v, %v; want false, nil", wrote, err)
	}
	data, _ = os.ReadFile(filepath.Join(dir, EULAFile))
	if string(data) != "eula=true\n#edited" {
		t.Error("existing eula.txt must not be rewritten")
	}
	if !HasEULA(dir) {
		t.Error("HasEULA() = false")
	}
}
