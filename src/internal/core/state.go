// FILE: src/internal/core/state.go
package core

import "sync/atomic"

// SenderState is one of Running, Stopping or Stopped. Transitions are
// one-directional: Running -> Stopping -> Stopped.
type SenderState int32

const (
	Running SenderState = iota
	Stopping
	Stopped
)

func (s SenderState) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StateHolder is a small atomic wrapper so lifecycle transitions don't
// need a mutex on the hot path.
type StateHolder struct {
	v atomic.Int32
}

// NewStateHolder returns a holder initialized to Running.
func NewStateHolder() *StateHolder {
	h := &StateHolder{}
	h.v.Store(int32(Running))
	return h
}

func (h *StateHolder) Load() SenderState {
	return SenderState(h.v.Load())
}

func (h *StateHolder) Store(s SenderState) {
	h.v.Store(int32(s))
}

// CompareAndSwap transitions from want to set, returning false if the
// current state was not want.
func (h *StateHolder) CompareAndSwap(want, set SenderState) bool {
	return h.v.CompareAndSwap(int32(want), int32(set))
}
