package schedfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectForm(t *testing.T) {
	testCases := []struct {
		path string
		want Form
	}{
		{"schedule.txt", FormLines},
		{"schedule", FormLines},
		{"/tmp/dir.d/sched.sched", FormLines},
		{"rounds.hcl", FormRoundsHCL},
		{"ROUNDS.HCL", FormRoundsHCL},
		{"rounds.yaml", FormRoundsYAML},
		{"rounds.yml", FormRoundsYAML},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectForm(tc.path))
		})
	}
}

func TestRead_SkipsBlankAndComments(t *testing.T) {
	src := `
# header comment
1 fpA 30 classA 1000 10 0

   # another
2 fpB 30 classA 1000 10 1
`
	records, err := Read(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, measurement.ID(1), records[0].ID)
	assert.Equal(t, measurement.ID(2), records[1].ID)
	assert.Equal(t, []measurement.ID{1}, records[1].Depends)
}

func TestRead_ReportsLineNumber(t *testing.T) {
	src := "# c\n1 fpA 30 a 1 1 0\n\n2 fpB 30 a,b 1 1 0\n"
	_, err := Read(context.Background(), strings.NewReader(src))
	require.Error(t, err)

	var recErr *measurement.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 4, recErr.Line)
	assert.ErrorIs(t, err, measurement.ErrInvalidHostCounts)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("line form", func(t *testing.T) {
		path := filepath.Join(dir, "sched.txt")
		require.NoError(t, os.WriteFile(path, []byte("1 fpA 30 a 1 1 0\n"), 0o644))

		records, err := ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("round forms are refused", func(t *testing.T) {
		for _, name := range []string{"rounds.hcl", "rounds.yaml"} {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("round {}\n"), 0o644))

			_, err := ReadFile(context.Background(), path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedForm)
			assert.Contains(t, err.Error(), "convert")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(context.Background(), filepath.Join(dir, "nope.txt"))
		assert.ErrorContains(t, err, "failed to open schedule file")
	})
}
