package rounds

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/measched/internal/measurement"
)

const (
	// DefaultDuration is used when a plan does not set one, in seconds.
	DefaultDuration uint32 = 30
	// DefaultConnections is used for hosts that do not set a connection count.
	DefaultConnections uint32 = 1
)

var (
	// ErrEmptyPlan reports a plan with no rounds.
	ErrEmptyPlan = errors.New("plan has no rounds")
	// ErrEmptyRound reports a round with no relays.
	ErrEmptyRound = errors.New("round has no relays")
	// ErrInvalidRelay reports a relay without a fingerprint or hosts.
	ErrInvalidRelay = errors.New("invalid relay")
)

// Plan is a format-agnostic round-based schedule.
type Plan struct {
	Duration    uint32
	Connections uint32
	Rounds      []Round
}

// Round is a group of relays measured together.
type Round struct {
	Relays []Relay
}

// Relay is one measurement target with its host shares.
type Relay struct {
	Fingerprint string
	Hosts       []HostShare
}

// HostShare is the bandwidth one host class contributes to a relay's
// measurement. Zero Connections means the plan default.
type HostShare struct {
	Class       string
	Bandwidth   uint32
	Connections uint32
}

// Measurements expands the plan into validated measurements. Ids are assigned
// from 1 in document order; each relay depends on every relay of the
// previous round.
func (p *Plan) Measurements() ([]*measurement.Measurement, error) {
	if len(p.Rounds) == 0 {
		return nil, ErrEmptyPlan
	}

	duration := p.Duration
	if duration == 0 {
		duration = DefaultDuration
	}
	defaultConns := p.Connections
	if defaultConns == 0 {
		defaultConns = DefaultConnections
	}

	var (
		out      []*measurement.Measurement
		previous []int64
		nextID   measurement.ID = 1
	)
	for ri, round := range p.Rounds {
		if len(round.Relays) == 0 {
			return nil, fmt.Errorf("round %d: %w", ri+1, ErrEmptyRound)
		}

		current := make([]int64, 0, len(round.Relays))
		for _, relay := range round.Relays {
			if relay.Fingerprint == "" {
				return nil, fmt.Errorf("round %d: %w: empty fingerprint", ri+1, ErrInvalidRelay)
			}
			if len(relay.Hosts) == 0 {
				return nil, fmt.Errorf("round %d, relay %s: %w: no hosts", ri+1, relay.Fingerprint, ErrInvalidRelay)
			}

			classes := make([]string, 0, len(relay.Hosts))
			bandwidths := make([]uint32, 0, len(relay.Hosts))
			connections := make([]uint32, 0, len(relay.Hosts))
			for _, h := range relay.Hosts {
				conns := h.Connections
				if conns == 0 {
					conns = defaultConns
				}
				classes = append(classes, h.Class)
				bandwidths = append(bandwidths, h.Bandwidth)
				connections = append(connections, conns)
			}

			m, err := measurement.New(nextID, relay.Fingerprint, duration, classes, bandwidths, connections, previous)
			if err != nil {
				return nil, fmt.Errorf("round %d, relay %s: %w", ri+1, relay.Fingerprint, err)
			}
			out = append(out, m)
			current = append(current, int64(nextID))
			nextID++
		}
		previous = current
	}
	return out, nil
}
