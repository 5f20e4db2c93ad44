package measurement

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	fieldID = iota
	fieldFingerprint
	fieldDuration
	fieldClasses
	fieldBandwidths
	fieldConnections
	fieldDepends

	fieldCount
)

// ParseLine turns one schedule line into a validated measurement. Blank and
// comment lines return (nil, nil). The dependency field may be left off, which
// is the same as writing 0.
func ParseLine(line string) (*Measurement, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)
	if len(fields) != fieldCount && len(fields) != fieldCount-1 {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, fieldCount, len(fields))
	}

	id, err := parseUint32(fields[fieldID], "id")
	if err != nil {
		return nil, err
	}
	duration, err := parseUint32(fields[fieldDuration], "duration")
	if err != nil {
		return nil, err
	}

	classes := strings.Split(fields[fieldClasses], ",")
	for _, c := range classes {
		if c == "" {
			return nil, fmt.Errorf("%w: empty host class in %q", ErrMalformedRecord, fields[fieldClasses])
		}
	}
	bandwidths, err := parseUint32List(fields[fieldBandwidths], "bandwidth")
	if err != nil {
		return nil, err
	}
	connections, err := parseUint32List(fields[fieldConnections], "connections")
	if err != nil {
		return nil, err
	}

	var depends []int64
	if len(fields) == fieldCount {
		for _, s := range strings.Split(fields[fieldDepends], ",") {
			d, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: dependency %q is not an integer", ErrMalformedRecord, s)
			}
			depends = append(depends, d)
		}
	}

	return New(ID(id), fields[fieldFingerprint], duration, classes, bandwidths, connections, depends)
}

// Format renders m in the line grammar accepted by ParseLine.
func Format(m *Measurement) string {
	classes := make([]string, len(m.Hosts))
	bandwidths := make([]string, len(m.Hosts))
	connections := make([]string, len(m.Hosts))
	for i, h := range m.Hosts {
		classes[i] = h.Class
		bandwidths[i] = strconv.FormatUint(uint64(h.Bandwidth), 10)
		connections[i] = strconv.FormatUint(uint64(h.Connections), 10)
	}

	depends := []string{"0"}
	if len(m.Depends) > 0 {
		depends = depends[:0]
		for _, d := range m.Depends {
			depends = append(depends, strconv.FormatUint(uint64(d), 10))
		}
	}

	return strings.Join([]string{
		strconv.FormatUint(uint64(m.ID), 10),
		m.Fingerprint,
		strconv.FormatUint(uint64(m.Duration), 10),
		strings.Join(classes, ","),
		strings.Join(bandwidths, ","),
		strings.Join(connections, ","),
		strings.Join(depends, ","),
	}, " ")
}

func parseUint32(s, name string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an unsigned 32-bit integer", ErrMalformedRecord, name, s)
	}
	return uint32(v), nil
}

func parseUint32List(s, name string) ([]uint32, error) {
	parts := strings.Split(s, ",")
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		v, err := parseUint32(p, name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
