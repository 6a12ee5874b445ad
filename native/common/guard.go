package common

import "errors"

var (
	ErrModulePaused    = errors.New("module paused")
	ErrOperatorBlocked = errors.New("operator not permitted")
)

// PauseView reports whether a native module is administratively paused.
type PauseView interface {
	IsPaused(module string) bool
}

// OperatorView decides whether the engine may move funds or assets on behalf
// of the given principal. A nil view grants everyone.
type OperatorView interface {
	Allowed(module string, principal [20]byte) bool
}

// Guard rejects calls into a paused module.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// Authorize rejects calls for principals the registry has not granted.
func Authorize(v OperatorView, module string, principal [20]byte) error {
	if v == nil || module == "" {
		return nil
	}
	if !v.Allowed(module, principal) {
		return ErrOperatorBlocked
	}
	return nil
}
