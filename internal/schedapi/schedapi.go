// Package schedapi defines the record shapes the scheduler shows to the
// outside world. They are deliberately separate from the measurement types so
// the internal model can change without breaking consumers.
package schedapi

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/specialistvlad/measched/internal/measurement"
)

// HostRecord is the external shape of a measurement host.
type HostRecord struct {
	Class       string `json:"class"`
	Bandwidth   uint32 `json:"bandwidth"`
	Connections uint32 `json:"connections"`
}

// MeasurementRecord is the external shape of a measurement.
type MeasurementRecord struct {
	ID              uint32       `json:"id"`
	Fingerprint     string       `json:"fingerprint"`
	Duration        uint32       `json:"duration"`
	State           string       `json:"state"`
	Hosts           []HostRecord `json:"hosts"`
	Depends         []uint32     `json:"depends"`
	FinishedDepends []uint32     `json:"finished_depends"`
	// FailsafeDeadline is seconds since the Unix epoch; 0 while waiting.
	FailsafeDeadline int64 `json:"failsafe_deadline"`
}

// WaveRecord groups the measurements that become ready together when every
// earlier wave has finished.
type WaveRecord struct {
	Wave         int                 `json:"wave"`
	Measurements []MeasurementRecord `json:"measurements"`
}

// StateName maps a state to its stable external name.
func StateName(s measurement.State) string {
	return s.String()
}

// FromMeasurement converts an internal measurement into its record.
func FromMeasurement(m measurement.Measurement) MeasurementRecord {
	rec := MeasurementRecord{
		ID:              uint32(m.ID),
		Fingerprint:     m.Fingerprint,
		Duration:        m.Duration,
		State:           StateName(m.State),
		Hosts:           make([]HostRecord, 0, len(m.Hosts)),
		Depends:         idsToUint32(m.Depends),
		FinishedDepends: idsToUint32(m.FinishedDepends),
	}
	for _, h := range m.Hosts {
		rec.Hosts = append(rec.Hosts, HostRecord{
			Class:       h.Class,
			Bandwidth:   h.Bandwidth,
			Connections: h.Connections,
		})
	}
	if !m.FailsafeDeadline.IsZero() {
		rec.FailsafeDeadline = m.FailsafeDeadline.Unix()
	}
	return rec
}

// FromMeasurements converts a list of measurements, keeping order.
func FromMeasurements(ms []measurement.Measurement) []MeasurementRecord {
	out := make([]MeasurementRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMeasurement(m))
	}
	return out
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

func idsToUint32(ids []measurement.ID) []uint32 {
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		out = append(out, uint32(id))
	}
	return out
}
