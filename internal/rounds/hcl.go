package rounds

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/measched/internal/ctxlog"
	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRoot is the top level of an HCL round file.
type hclRoot struct {
	Duration    hcl.Expression   `hcl:"duration,optional"`
	Connections hcl.Expression   `hcl:"connections,optional"`
	Rounds      []*hclRoundBlock `hcl:"round,block"`
}

type hclRoundBlock struct {
	Relays []*hclRelayBlock `hcl:"relay,block"`
}

type hclRelayBlock struct {
	Fingerprint string          `hcl:"fingerprint,label"`
	Hosts       []*hclHostBlock `hcl:"host,block"`
}

type hclHostBlock struct {
	Class       string         `hcl:"class,label"`
	Bandwidth   hcl.Expression `hcl:"bandwidth"`
	Connections hcl.Expression `hcl:"connections,optional"`
}

// evalContext exposes bandwidth units so shares can be written as `80 * mbit`.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"kbit":         cty.NumberUIntVal(125),
			"mbit":         cty.NumberUIntVal(125_000),
			"gbit":         cty.NumberUIntVal(125_000_000),
			"bg_bandwidth": cty.NumberUIntVal(uint64(measurement.BackgroundBandwidth)),
		},
	}
}

// ParseHCL decodes an HCL round file held in src. filename is used in
// diagnostics only.
func ParseHCL(ctx context.Context, filename string, src []byte) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	plan := &Plan{Rounds: make([]Round, 0, len(root.Rounds))}
	if isExprDefined(root.Duration) {
		d, err := evalUint32(root.Duration)
		if err != nil {
			return nil, fmt.Errorf("%s: duration: %w", filename, err)
		}
		plan.Duration = d
	}
	if isExprDefined(root.Connections) {
		c, err := evalUint32(root.Connections)
		if err != nil {
			return nil, fmt.Errorf("%s: connections: %w", filename, err)
		}
		plan.Connections = c
	}

	for _, rb := range root.Rounds {
		round := Round{Relays: make([]Relay, 0, len(rb.Relays))}
		for _, relay := range rb.Relays {
			r := Relay{Fingerprint: relay.Fingerprint}
			for _, h := range relay.Hosts {
				share, err := decodeHostBlock(h)
				if err != nil {
					return nil, fmt.Errorf("%s: relay %s: %w", filename, relay.Fingerprint, err)
				}
				r.Hosts = append(r.Hosts, share)
			}
			round.Relays = append(round.Relays, r)
		}
		plan.Rounds = append(plan.Rounds, round)
	}

	logger.Debug("HCL round file decoded.", "file", filename, "rounds", len(plan.Rounds))
	return plan, nil
}

func decodeHostBlock(h *hclHostBlock) (HostShare, error) {
	share := HostShare{Class: h.Class}

	bw, err := evalUint32(h.Bandwidth)
	if err != nil {
		return share, fmt.Errorf("host %q bandwidth: %w", h.Class, err)
	}
	share.Bandwidth = bw

	if isExprDefined(h.Connections) {
		conns, err := evalUint32(h.Connections)
		if err != nil {
			return share, fmt.Errorf("host %q connections: %w", h.Class, err)
		}
		share.Connections = conns
	}
	return share, nil
}

// isExprDefined reports whether an optional attribute was actually written.
// Omitted optional attributes still decode to a non-nil expression with a
// zero-width source range.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}

func evalUint32(expr hcl.Expression) (uint32, error) {
	val, diags := expr.Value(evalContext())
	if diags.HasErrors() {
		return 0, diags
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, err
	}
	if num.IsNull() || !num.IsKnown() {
		return 0, fmt.Errorf("value must be a known number")
	}
	if bf := num.AsBigFloat(); !bf.IsInt() {
		return 0, fmt.Errorf("value %s must be a whole number", bf.Text('f', -1))
	}
	var out uint32
	if err := gocty.FromCtyValue(num, &out); err != nil {
		return 0, err
	}
	return out, nil
}
