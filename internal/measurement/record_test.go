package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DropsAndCollapsesDependencies(t *testing.T) {
	m, err := New(4, "fp", 30, []string{"a"}, []uint32{10}, []uint32{1}, []int64{0, 2, -1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []ID{2, 3}, m.Depends)
	assert.Equal(t, Waiting, m.State)
}

func TestNew_RejectsTextTheLineGrammarCannotHold(t *testing.T) {
	testCases := []struct {
		name        string
		fingerprint string
		class       string
	}{
		{"space in fingerprint", "A B", "a"},
		{"tab in fingerprint", "A\tB", "a"},
		{"empty fingerprint", "", "a"},
		{"comma in class", "fp", "x,y"},
		{"space in class", "fp", "x y"},
		{"empty class", "fp", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := New(1, tc.fingerprint, 30, []string{tc.class}, []uint32{10}, []uint32{1}, nil)
			assert.ErrorIs(t, err, ErrMalformedRecord)
			assert.Nil(t, m)
		})
	}
}

func TestValidate_ChecksRecordsBuiltByHand(t *testing.T) {
	m := &Measurement{ID: 1, Fingerprint: "fp", Hosts: []Host{{Class: "a,b", Bandwidth: 1, Connections: 1}}}
	assert.ErrorIs(t, Validate(m), ErrMalformedRecord)

	m.Hosts[0].Class = "a"
	assert.NoError(t, Validate(m))
}
