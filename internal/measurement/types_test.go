package measurement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeasurement_Ready(t *testing.T) {
	m := &Measurement{ID: 3, Depends: []ID{1, 2}}
	assert.False(t, m.Ready())

	m.FinishedDepends = append(m.FinishedDepends, 1)
	assert.False(t, m.Ready())

	m.FinishedDepends = append(m.FinishedDepends, 2)
	assert.True(t, m.Ready())

	m.State = InProgress
	assert.False(t, m.Ready(), "only waiting measurements can be ready")
}

func TestMeasurement_CloneIsIndependent(t *testing.T) {
	m := &Measurement{
		ID:               1,
		Hosts:            []Host{{Class: "a", Bandwidth: 1, Connections: 1}},
		Depends:          []ID{2},
		FinishedDepends:  []ID{2},
		FailsafeDeadline: time.Unix(100, 0),
	}
	c := m.Clone()
	c.Hosts[0].Class = "changed"
	c.Depends[0] = 9
	c.FinishedDepends[0] = 9

	assert.Equal(t, "a", m.Hosts[0].Class)
	assert.Equal(t, []ID{2}, m.Depends)
	assert.Equal(t, []ID{2}, m.FinishedDepends)
	assert.Equal(t, m.FailsafeDeadline, c.FailsafeDeadline)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "waiting", Waiting.String())
	assert.Equal(t, "in_progress", InProgress.String())
	assert.Equal(t, "complete", Complete.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestRecordError(t *testing.T) {
	err := &RecordError{Line: 4, Err: ErrZeroID}
	assert.EqualError(t, err, "line 4: measurement id 0 is reserved")
	assert.ErrorIs(t, err, ErrZeroID)

	noLine := &RecordError{Err: ErrZeroID}
	assert.EqualError(t, noLine, "measurement id 0 is reserved")
}
