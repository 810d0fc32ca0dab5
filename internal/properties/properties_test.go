package properties

import (
	"os"
	"testing"

	"github.com/ISOnRM/minecraft-server/internal/errors"
	"github.com/ISOnRM/minecraft-server/internal/server"
)

const sample = `#Minecraft server properties
#Mon Jan 01 00:00:00 UTC 2024
enable-rcon=false
motd=A Minecraft Server
server-port=25565
query.port=25565
level-seed=
resource-pack=https\://example.com/pack.zip
`

func setup(t *testing.T, content string) (server.Dir, *File) {
	t.Helper()
	root, err := server.NewRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir, err := root.Bind("srv")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir.Join(FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return dir, f
}

func read(t *testing.T, f *File) string {
	t.Helper()
	data, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestOpen_Missing(t *testing.T) {
	root, err := server.NewRoot(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir, err := root.Bind("srv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir); !errors.Is(err, errors.ErrPropertiesNotFound) {
		t.Errorf("Open() error = %v, want ErrPropertiesNotFound", err)
	}
}

func TestValue(t *testing.T) {
	_, f := setup(t, sample)

	tests := []struct {
		key  string
		want string
	}{
		{"motd", "A Minecraft Server"},
		{"server-port", "25565"},
		{"level-seed", ""},
	}
	for _, tt := range tests {
		got, err := f.Value(tt.key)
		if err != nil {
			t.Errorf("Value(%q) error: %v", tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Value(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	if _, err := f.Value("no-such-key"); !errors.Is(err, errors.ErrPropertyNotFound) {
		t.Errorf("Value(missing) error = %v, want ErrPropertyNotFound", err)
	}
}

func TestSetPort_OnlyTouchesServerPort(t *testing.T) {
	_, f := setup(t, sample)

	old, err := f.SetPort(25570)
	if err != nil {
		t.Fatalf("SetPort() error: %v", err)
	}
	if old != "25565" {
		t.Errorf("SetPort() old = %q, want 25565", old)
	}

	want := `#Minecraft server properties
#Mon Jan 01 00:00:00 UTC 2024
enable-rcon=false
motd=A Minecraft Server
server-port=25570
query.port=25565
level-seed=
resource-pack=https\://example.com/pack.zip
`
	if got := read(t, f); got != want {
		t.Errorf("file after SetPort:\n%s\nwant:\n%s", got, want)
	}
}

func TestSetPort_Range(t *testing.T) {
	_, f := setup(t, sample)
	for _, port := range []int{0, -1, 65536} {
		if _, err := f.SetPort(port); !errors.Is(err, errors.ErrInvalidPort) {
			t.Errorf("SetPort(%d) error = %v, want ErrInvalidPort", port, err)
		}
	}
	if got := read(t, f); got != sample {
		t.Error("rejected port should not modify the file")
	}
}

func TestSet_EmptyValue(t *testing.T) {
	_, f := setup(t, sample)

	old, err := f.Set("level-seed", "12345")
	if err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if old != "" {
		t.Errorf("Set() old = %q, want empty", old)
	}
	got, err := f.Value("level-seed")
	if err != nil {
		t.Fatal(err)
	}
	if got != "12345" {
		t.Errorf("level-seed = %q", got)
	}
}

func TestSet_MissingKey(t *testing.T) {
	_, f := setup(t, sample)

	if _, err := f.Set("difficulty", "hard"); !errors.Is(err, errors.ErrPropertyNotFound) {
		t.Errorf("Set() error = %v, want ErrPropertyNotFound", err)
	}
	if got := read(t, f); got != sample {
		t.Error("failed Set should not modify the file")
	}
}

func TestSet_RejectsMultiline(t *testing.T) {
	_, f := setup(t, sample)
	if _, err := f.Set("motd", "line1\nserver-port=1"); err == nil {
		t.Error("expected error for multi-line value")
	}
}

func TestSet_ReturnsPreviousValue(t *testing.T) {
	_, f := setup(t, sample)

	old, err := f.Set("motd", "Family Server")
	if err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if old != "A Minecraft Server" {
		t.Errorf("Set() old = %q, want %q", old, "A Minecraft Server")
	}
	if got, _ := f.Value("motd"); got != "Family Server" {
		t.Errorf("motd = %q", got)
	}
}
