package domain

import (
	"errors"
	"fmt"
)

// Phase is the scan session lifecycle position. A session always ends back
// at Idle; failures pass through Error during cleanup and leave the mapped
// error behind as the session's last error.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOpening
	PhaseAcquiring
	PhaseStreaming
	PhaseClosing
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOpening:
		return "opening"
	case PhaseAcquiring:
		return "acquiring"
	case PhaseStreaming:
		return "streaming"
	case PhaseClosing:
		return "closing"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrorKind is the user-facing failure taxonomy of a scan session.
type ErrorKind string

const (
	KindCapabilityUnavailable  ErrorKind = "capability_unavailable"
	KindPermissionDenied       ErrorKind = "permission_denied"
	KindDeviceNotFound         ErrorKind = "device_not_found"
	KindDeviceBusy             ErrorKind = "device_busy"
	KindConstraintsUnsupported ErrorKind = "constraints_unsupported"
	KindDisplayTargetGone      ErrorKind = "display_target_gone"
	KindDisplayTimeout         ErrorKind = "display_timeout"
	KindUnknown                ErrorKind = "unknown"
)

// Error is a terminal session failure. The controller does not retry past
// it; the user must open a new session.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinel causes reported by camera capability providers.
var (
	ErrPermissionDenied       = errors.New("camera permission denied")
	ErrDeviceNotFound         = errors.New("no camera device found")
	ErrDeviceBusy             = errors.New("camera is in use by another application")
	ErrConstraintsUnsupported = errors.New("camera constraints not supported by device")
)

// KindOf maps a provider-reported cause to its user-facing kind.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrDeviceNotFound):
		return KindDeviceNotFound
	case errors.Is(err, ErrDeviceBusy):
		return KindDeviceBusy
	case errors.Is(err, ErrConstraintsUnsupported):
		return KindConstraintsUnsupported
	default:
		return KindUnknown
	}
}
