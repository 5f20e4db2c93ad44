package measurement

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// New builds a Waiting measurement from parallel per-host attribute lists and
// validates it. Dependency entries <= 0 mean "no dependency" and are dropped;
// repeated entries collapse into one.
func New(id ID, fingerprint string, duration uint32, classes []string, bandwidths, connections []uint32, depends []int64) (*Measurement, error) {
	if len(classes) != len(bandwidths) || len(classes) != len(connections) {
		return nil, fmt.Errorf("%w: %d classes, %d bandwidths, %d connections",
			ErrInvalidHostCounts, len(classes), len(bandwidths), len(connections))
	}

	hosts := make([]Host, 0, len(classes))
	for i := range classes {
		hosts = append(hosts, Host{
			Class:       classes[i],
			Bandwidth:   bandwidths[i],
			Connections: connections[i],
		})
	}

	deps := make([]ID, 0, len(depends))
	for _, d := range depends {
		if d <= 0 {
			continue
		}
		if d > int64(^uint32(0)) {
			return nil, fmt.Errorf("%w: dependency %d out of range", ErrMalformedRecord, d)
		}
		if dep := ID(d); !slices.Contains(deps, dep) {
			deps = append(deps, dep)
		}
	}

	m := &Measurement{
		ID:          id,
		Fingerprint: fingerprint,
		Duration:    duration,
		Hosts:       hosts,
		Depends:     deps,
		State:       Waiting,
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the invariants a single measurement must hold regardless of
// the catalog it ends up in.
func Validate(m *Measurement) error {
	if m.ID == None {
		return ErrZeroID
	}
	if m.DependsOn(m.ID) {
		return fmt.Errorf("%w: id %d", ErrSelfDependency, m.ID)
	}
	if m.Fingerprint == "" || strings.ContainsFunc(m.Fingerprint, unicode.IsSpace) {
		return fmt.Errorf("%w: fingerprint %q must be a single non-empty word", ErrMalformedRecord, m.Fingerprint)
	}
	for _, h := range m.Hosts {
		if h.Class == "" || strings.ContainsFunc(h.Class, unicode.IsSpace) || strings.Contains(h.Class, ",") {
			return fmt.Errorf("%w: host class %q must be non-empty without spaces or commas", ErrMalformedRecord, h.Class)
		}
	}

	backgrounds := 0
	for _, h := range m.Hosts {
		if !h.IsBackground() {
			continue
		}
		backgrounds++
		if backgrounds > 1 {
			return fmt.Errorf("%w: more than one %q host", ErrInvalidBackgroundHost, BackgroundClass)
		}
		if h.Connections != BackgroundConnections {
			return fmt.Errorf("%w: %q host must use %d connection, got %d",
				ErrInvalidBackgroundHost, BackgroundClass, BackgroundConnections, h.Connections)
		}
		if h.Bandwidth != BackgroundBandwidth {
			return fmt.Errorf("%w: %q host must use bandwidth %d, got %d",
				ErrInvalidBackgroundHost, BackgroundClass, BackgroundBandwidth, h.Bandwidth)
		}
	}
	return nil
}
