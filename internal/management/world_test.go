package management

import (
	"archive/tar"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/server"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func seedWorlds(t *testing.T, dir server.Dir) {
	t.Helper()
	writeFile(t, dir.Join("world", "level.dat"), "overworld")
	writeFile(t, dir.Join("world", "region", "r.0.0.mca"), "chunks")
	writeFile(t, dir.Join("world_nether", "level.dat"), "nether")
	if err := os.MkdirAll(dir.Join("world_the_end", "DIM1"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir.Join("server.properties"), "server-port=25565\n")
}

func TestLiveWorlds(t *testing.T) {
	dir := bindTestDir(t)
	seedWorlds(t, dir)
	writeFile(t, dir.Join("worldedit.jar"), "not a dir")

	got, err := LiveWorlds(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"world", "world_nether", "world_the_end"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LiveWorlds() = %v, want %v", got, want)
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	dir := bindTestDir(t)
	seedWorlds(t, dir)

	snap, err := Pack(dir, "survival")
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if snap == nil {
		t.Fatal("Pack() returned no snapshot")
	}
	if snap.Path != dir.Join("survival.tar") {
		t.Errorf("snapshot path = %q", snap.Path)
	}
	if live, _ := LiveWorlds(dir); len(live) != 0 {
		t.Errorf("live worlds after pack = %v", live)
	}
	if _, err := os.Stat(dir.Join("server.properties")); err != nil {
		t.Error("pack should only touch world directories")
	}

	restored, err := Unpack(dir, "survival")
	if err != nil {
		t.Fatalf("Unpack() error: %v", err)
	}
	want := []string{"world", "world_nether", "world_the_end"}
	if !reflect.DeepEqual(restored.Dirs, want) {
		t.Errorf("restored dirs = %v, want %v", restored.Dirs, want)
	}
	if got := readFile(t, dir.Join("world", "region", "r.0.0.mca")); got != "chunks" {
		t.Errorf("region file = %q", got)
	}
	if got := readFile(t, dir.Join("world_nether", "level.dat")); got != "nether" {
		t.Errorf("nether level.dat = %q", got)
	}
	if info, err := os.Stat(dir.Join("world_the_end", "DIM1")); err != nil || !info.IsDir() {
		t.Error("empty directories should survive the round trip")
	}
	if _, err := os.Stat(dir.Join("survival.tar")); !os.IsNotExist(err) {
		t.Error("archive should be consumed by unpack")
	}
}

func TestPack_TarSuffixIsNotDoubled(t *testing.T) {
	dir := bindTestDir(t)
	seedWorlds(t, dir)

	snap, err := Pack(dir, "backup.tar")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Name != "backup" || snap.Path != dir.Join("backup.tar") {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPack_NothingToPack(t *testing.T) {
	dir := bindTestDir(t)

	snap, err := Pack(dir, "empty")
	if err != nil {
		t.Fatalf("Pack() error: %v", err)
	}
	if snap != nil {
		t.Errorf("Pack() = %+v, want nil", snap)
	}
	if _, err := os.Stat(dir.Join("empty.tar")); !os.IsNotExist(err) {
		t.Error("no archive should be written")
	}
}

func TestPack_NameCollision(t *testing.T) {
	dir := bindTestDir(t)
	seedWorlds(t, dir)
	writeFile(t, dir.Join("survival.tar"), "older snapshot")

	_, err := Pack(dir, "survival")
	if !errors.Is(err, errors.ErrSnapshotNameCollision) {
		t.Fatalf("Pack() error = %v, want ErrSnapshotNameCollision", err)
	}
	if got := readFile(t, dir.Join("world", "level.dat")); got != "overworld" {
		t.Error("live world should be untouched")
	}
	if got := readFile(t, dir.Join("survival.tar")); got != "older snapshot" {
		t.Error("existing archive should be untouched")
	}
}

func TestPack_InvalidName(t *testing.T) {
	dir := bindTestDir(t)
	seedWorlds(t, dir)

	for _, name := range []string{"", "../escape", "a/b", ".tar"} {
		if _, err := Pack(dir, name); errors.KindOf(err) != errors.KindValidation {
			t.Errorf("Pack(%q) error = %v, want validation error", name, err)
		}
	}
}

func TestUnpack_LiveWorldExists(t *testing.T) {
	dir := bindTestDir(t)
	seedWorlds(t, dir)
	if _, err := Pack(dir, "old"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir.Join("world", "level.dat"), "new world")

	_, err := Unpack(dir, "old")
	if !errors.Is(err, errors.ErrLiveWorldExists) {
		t.Fatalf("Unpack() error = %v, want ErrLiveWorldExists", err)
	}
	if _, err := os.Stat(dir.Join("old.tar")); err != nil {
		t.Error("archive should be untouched")
	}
	if got := readFile(t, dir.Join("world", "level.dat")); got != "new world" {
		t.Error("live world should be untouched")
	}
}

func TestUnpack_NotFound(t *testing.T) {
	dir := bindTestDir(t)

	_, err := Unpack(dir, "missing")
	if !errors.Is(err, errors.ErrSnapshotNotFound) {
		t.Fatalf("Unpack() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestRemoveSnapshot(t *testing.T) {
	dir := bindTestDir(t)
	writeFile(t, dir.Join("old.tar"), "x")

	if err := RemoveSnapshot(dir, "old"); err != nil {
		t.Fatalf("RemoveSnapshot() error: %v", err)
	}
	if _, err := os.Stat(dir.Join("old.tar")); !os.IsNotExist(err) {
		t.Error("archive should be removed")
	}
	if err := RemoveSnapshot(dir, "old"); !errors.Is(err, errors.ErrSnapshotNotFound) {
		t.Errorf("second RemoveSnapshot() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestListSnapshots_Sorted(t *testing.T) {
	dir := bindTestDir(t)
	for _, name := range []string{"zeta.tar", "alpha.tar", "mid.tar", ".alpha.tar.123.part", "paper.jar"} {
		writeFile(t, dir.Join(name), "x")
	}
	if err := os.Mkdir(dir.Join("dir.tar"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListSnapshots(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListSnapshots() = %v, want %v", got, want)
	}
}

func TestExtractTar_StaysInsideDestination(t *testing.T) {
	dir := bindTestDir(t)
	outside := filepath.Dir(dir.Path())
	writeFile(t, dir.Join("src", "evil", "payload"), "data")
	archive := dir.Join("evil.tar")
	if err := writeTar(archive, dir.Join("src"), []string{"evil"}); err != nil {
		t.Fatal(err)
	}

	dest := dir.Join("dest")
	if err := os.Mkdir(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	// A symlink pointing out of dest must not be followed.
	if err := os.Symlink(outside, filepath.Join(dest, "evil")); err != nil {
		t.Skip("symlinks unsupported")
	}
	if _, err := extractTar(archive, dest); err != nil {
		t.Logf("extractTar() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outside, "payload")); err == nil {
		t.Error("extraction escaped the destination directory")
	}
}

func TestExtractTar_Hardlink(t *testing.T) {
	dir := bindTestDir(t)
	archive := dir.Join("linked.tar")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(f)
	data := []byte("level")
	entries := []*tar.Header{
		{Name: "world/", Typeflag: tar.TypeDir, Mode: 0o755},
		{Name: "world/level.dat", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(data))},
		{Name: "world/level.dat_old", Typeflag: tar.TypeLink, Linkname: "world/level.dat", Mode: 0o644},
	}
	for _, h := range entries {
		if err := tw.WriteHeader(h); err != nil {
			t.Fatal(err)
		}
		if h.Typeflag == tar.TypeReg {
			if _, err := tw.Write(data); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	dest := dir.Join("dest")
	if err := os.Mkdir(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	top, err := extractTar(archive, dest)
	if err != nil {
		t.Fatalf("extractTar() error: %v", err)
	}
	if !reflect.DeepEqual(top, []string{"world"}) {
		t.Errorf("top-level = %v", top)
	}
	if got := readFile(t, filepath.Join(dest, "world", "level.dat_old")); got != "level" {
		t.Errorf("hardlinked file = %q", got)
	}
}

func TestLiveWorlds_FollowsSymlinkedDirectory(t *testing.T) {
	dir := bindTestDir(t)
	target := filepath.Join(t.TempDir(), "saves")
	writeFile(t, filepath.Join(target, "level.dat"), "lvl")
	if err := os.Symlink(target, dir.Join("world")); err != nil {
		t.Skip("symlinks unsupported")
	}
	writeFile(t, dir.Join("world.txt"), "not a world")

	got, err := LiveWorlds(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"world"}) {
		t.Errorf("LiveWorlds() = %v", got)
	}
	if _, err := Unpack(dir, "any"); !errors.Is(err, errors.ErrLiveWorldExists) {
		t.Errorf("Unpack() error = %v, want ErrLiveWorldExists", err)
	}
}
