package errors

import (
	"fmt"
	"io/fs"
	"testing"
)

func TestNewf_MatchesSentinel(t *testing.T) {
	err := Newf(ErrSnapshotNotFound, "/srv/a.tar", "world %q was not found", "a")

	if !Is(err, ErrSnapshotNotFound) {
		t.Fatal("expected detailed error to match its sentinel")
	}
	if Is(err, ErrSnapshotNameCollision) {
		t.Fatal("detailed error should not match an unrelated sentinel")
	}
	if err.Error() != `world "a" was not found` {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Path != "/srv/a.tar" {
		t.Errorf("Path = %q", err.Path)
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	err := Wrap(ErrDownloadFailed, "/srv/core.jar", fs.ErrPermission)

	if !Is(err, ErrDownloadFailed) {
		t.Fatal("expected match on sentinel")
	}
	if !Is(err, fs.ErrPermission) {
		t.Fatal("expected match on wrapped cause")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", ErrPathEscape, KindValidation},
		{"not found", Newf(ErrCoreMissing, "", "missing"), KindNotFound},
		{"collision", ErrSnapshotNameCollision, KindCollision},
		{"state", ErrLiveWorldExists, KindStateConflict},
		{"io wrapped by fmt", fmt.Errorf("pack: %w", ErrArchiveFailed), KindExternalIO},
		{"plain", New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", ErrReservedPath)); got != "ReservedPath" {
		t.Errorf("CodeOf() = %q", got)
	}
	if got := CodeOf(New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestKindString(t *testing.T) {
	if KindStateConflict.String() != "state_conflict" {
		t.Errorf("String() = %q", KindStateConflict.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("String() = %q", Kind(99).String())
	}
}
