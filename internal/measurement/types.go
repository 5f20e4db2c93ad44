package measurement

import (
	"slices"
	"time"
)

// ID identifies a measurement within one catalog. Zero is reserved and means
// "no measurement".
type ID uint32

// None is the sentinel returned when no measurement is available.
const None ID = 0

const (
	// BackgroundClass is the reserved host class for background traffic.
	BackgroundClass = "bg"
	// BackgroundBandwidth is the only bandwidth, in bytes/second, a background host may use.
	BackgroundBandwidth uint32 = 125000
	// BackgroundConnections is the only connection count a background host may use.
	BackgroundConnections uint32 = 1
)

// State is the lifecycle position of a measurement. Transitions only ever
// move forward: Waiting -> InProgress -> Complete.
type State int

const (
	// Waiting means the measurement has not been handed out yet.
	Waiting State = iota
	// InProgress means the measurement was handed out and not reported done.
	InProgress
	// Complete means the measurement was reported done.
	Complete
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case InProgress:
		return "in_progress"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Host describes one remote host a measurement should use. It is a resource
// specification, not something the scheduler tracks.
type Host struct {
	Class       string
	Bandwidth   uint32 // bytes/second
	Connections uint32
}

// IsBackground reports whether the host belongs to the reserved background class.
func (h Host) IsBackground() bool {
	return h.Class == BackgroundClass
}

// Measurement is one unit of schedulable work.
type Measurement struct {
	ID          ID
	Fingerprint string
	// Duration is the expected run length in seconds.
	Duration uint32
	Hosts    []Host
	// Depends holds the ids that must reach Complete first, in declaration order.
	Depends []ID

	// FinishedDepends is the append-only subset of Depends observed complete.
	FinishedDepends []ID
	State           State
	// FailsafeDeadline is zero until the measurement leaves Waiting.
	FailsafeDeadline time.Time
}

// Ready reports whether the measurement is Waiting and every dependency has
// completed. FinishedDepends only ever gains members of Depends, so comparing
// sizes is enough.
func (m *Measurement) Ready() bool {
	return m.State == Waiting && len(m.FinishedDepends) == len(m.Depends)
}

// DependsOn reports whether id is one of the measurement's dependencies.
func (m *Measurement) DependsOn(id ID) bool {
	return slices.Contains(m.Depends, id)
}

// HasFinished reports whether id was already recorded as a finished dependency.
func (m *Measurement) HasFinished(id ID) bool {
	return slices.Contains(m.FinishedDepends, id)
}

// Clone returns a deep copy that shares no slices with m.
func (m *Measurement) Clone() Measurement {
	c := *m
	c.Hosts = slices.Clone(m.Hosts)
	c.Depends = slices.Clone(m.Depends)
	c.FinishedDepends = slices.Clone(m.FinishedDepends)
	return c
}
