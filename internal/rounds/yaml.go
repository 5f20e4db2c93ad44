package rounds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/measched/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

type yamlPlan struct {
	Duration    uint32      `yaml:"duration"`
	Connections uint32      `yaml:"connections"`
	Rounds      []yamlRound `yaml:"rounds"`
}

type yamlRound struct {
	Relays []yamlRelay `yaml:"relays"`
}

type yamlRelay struct {
	Fingerprint string     `yaml:"fingerprint"`
	Hosts       []yamlHost `yaml:"hosts"`
}

type yamlHost struct {
	Class       string `yaml:"class"`
	Bandwidth   uint32 `yaml:"bandwidth"`
	Connections uint32 `yaml:"connections"`
}

// ParseYAML decodes a YAML round file held in src. Unknown keys are rejected.
func ParseYAML(ctx context.Context, filename string, src []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc yamlPlan
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	plan := &Plan{
		Duration:    doc.Duration,
		Connections: doc.Connections,
		Rounds:      make([]Round, 0, len(doc.Rounds)),
	}
	for _, yr := range doc.Rounds {
		round := Round{Relays: make([]Relay, 0, len(yr.Relays))}
		for _, yrel := range yr.Relays {
			relay := Relay{Fingerprint: yrel.Fingerprint}
			for _, h := range yrel.Hosts {
				relay.Hosts = append(relay.Hosts, HostShare(h))
			}
			round.Relays = append(round.Relays, relay)
		}
		plan.Rounds = append(plan.Rounds, round)
	}

	ctxlog.FromContext(ctx).Debug("YAML round file decoded.", "file", filename, "rounds", len(plan.Rounds))
	return plan, nil
}
