// Package errors defines the failure taxonomy shared by every mcserver
// component.
//
// Failures fall into a small closed set of kinds so callers can branch on
// category without matching strings:
//
//   - KindValidation: bad shape, range or containment; rejected before any mutation
//   - KindNotFound: a required core, archive, plugin or file is missing
//   - KindCollision: a name is already in use
//   - KindStateConflict: the server directory is in the wrong live/archived state
//   - KindExternalIO: download, process or filesystem failure
//
// Each named sentinel (ErrPathEscape, ErrSnapshotNotFound, ...) carries its
// kind. Detailed errors built with Wrap or Newf still match their sentinel:
//
//	err := errors.Newf(errors.ErrSnapshotNotFound, path, "world %q was not found", name)
//	errors.Is(err, errors.ErrSnapshotNotFound) // true
//	errors.KindOf(err) == errors.KindNotFound  // true
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers only import this package.
var (
	Is   = errors.Is
	As   = errors.As
	New  = errors.New
	Join = errors.Join
)

// Kind is the failure category of an Error.
type Kind int

// Failure kinds.
const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindCollision
	KindStateConflict
	KindExternalIO
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCollision:
		return "collision"
	case KindStateConflict:
		return "state_conflict"
	case KindExternalIO:
		return "external_io"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Code names the specific condition
// (e.g. "PathEscape"); Path is the filesystem location involved, if any.
type Error struct {
	Kind    Kind
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so detailed errors satisfy
// errors.Is against their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func sentinel(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Validation sentinels.
var (
	ErrInvalidPathShape           = sentinel(KindValidation, "InvalidPathShape", "path must be a single directory name")
	ErrPathEscape                 = sentinel(KindValidation, "PathEscape", "path escapes the repository root")
	ErrReservedPath               = sentinel(KindValidation, "ReservedPath", "path is reserved by the tool")
	ErrNotADirectory              = sentinel(KindValidation, "NotADirectory", "path exists and is not a directory")
	ErrMissingServerDirectory     = sentinel(KindValidation, "MissingServerDirectory", "no server directory bound")
	ErrCoreOutsideServerDirectory = sentinel(KindValidation, "CoreOutsideServerDirectory", "core is not inside the server directory")
	ErrInvalidRange               = sentinel(KindValidation, "InvalidRange", "minimum memory must be smaller than maximum memory")
	ErrInvalidURL                 = sentinel(KindValidation, "InvalidURL", "invalid download URL")
	ErrInvalidName                = sentinel(KindValidation, "InvalidName", "name must be a single path component")
	ErrInvalidPort                = sentinel(KindValidation, "InvalidPort", "port must be 1-65535")
	ErrInvalidConfig              = sentinel(KindValidation, "InvalidConfig", "invalid configuration")
)

// Not-found sentinels.
var (
	ErrCoreMissing         = sentinel(KindNotFound, "CoreMissing", "core file does not exist")
	ErrCoreNotFound        = sentinel(KindNotFound, "CoreNotFound", "no core found")
	ErrRuntimeMissing      = sentinel(KindNotFound, "RuntimeMissing", "runtime executable not found")
	ErrNotAServerDirectory = sentinel(KindNotFound, "NotAServerDirectory", "not a server directory")
	ErrSnapshotNotFound    = sentinel(KindNotFound, "SnapshotNotFound", "world archive not found")
	ErrPluginNotFound      = sentinel(KindNotFound, "PluginNotFound", "plugin not found")
	ErrPropertiesNotFound  = sentinel(KindNotFound, "PropertiesNotFound", "server.properties not found")
	ErrPropertyNotFound    = sentinel(KindNotFound, "PropertyNotFound", "property not found")
)

// Collision and state sentinels.
var (
	ErrSnapshotNameCollision = sentinel(KindCollision, "SnapshotNameCollision", "world archive with the same name exists")
	ErrLiveWorldExists       = sentinel(KindStateConflict, "LiveWorldExists", "a live world exists; pack it first")
)

// External I/O sentinels.
var (
	ErrDownloadFailed = sentinel(KindExternalIO, "DownloadFailed", "download failed")
	ErrProcessFailed  = sentinel(KindExternalIO, "ProcessFailed", "server process failed")
	ErrArchiveFailed  = sentinel(KindExternalIO, "ArchiveFailed", "world archive operation failed")
	ErrFilesystem     = sentinel(KindExternalIO, "Filesystem", "filesystem operation failed")
)

// Newf returns a detailed copy of sentinel for path with a formatted message.
func Newf(sentinel *Error, path, format string, args ...any) *Error {
	return &Error{
		Kind:    sentinel.Kind,
		Code:    sentinel.Code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns a detailed copy of sentinel for path that wraps cause.
func Wrap(sentinel *Error, path string, cause error) *Error {
	msg := sentinel.Message
	if path != "" {
		msg = fmt.Sprintf("%s (%s)", sentinel.Message, path)
	}
	return &Error{
		Kind:    sentinel.Kind,
		Code:    sentinel.Code,
		Path:    path,
		Message: msg,
		Err:     cause,
	}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf reports the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
