package rounds

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/measched/internal/ctxlog"
	"github.com/specialistvlad/measched/internal/measurement"
	"github.com/specialistvlad/measched/internal/schedfile"
)

// ErrNotRoundForm is returned when asked to convert a file that is not a round file.
var ErrNotRoundForm = errors.New("file is not a round-based schedule")

// ParseFile reads a round file, choosing HCL or YAML from its extension.
func ParseFile(ctx context.Context, path string) (*Plan, error) {
	form := schedfile.DetectForm(path)
	if !form.IsRounds() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRoundForm)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read round file: %w", err)
	}

	if form == schedfile.FormRoundsHCL {
		return ParseHCL(ctx, path, src)
	}
	return ParseYAML(ctx, path, src)
}

// Emit writes the plan as line-form schedule text. source is named in the
// header comment and may be empty.
func Emit(w io.Writer, plan *Plan, source string) (int, error) {
	ms, err := plan.Measurements()
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	if source != "" {
		fmt.Fprintf(bw, "# converted from %s\n", filepath.Base(source))
	}
	fmt.Fprintf(bw, "# %d rounds, %d measurements\n", len(plan.Rounds), len(ms))
	fmt.Fprintln(bw, "# id fingerprint duration classes bandwidths connections depends")
	for _, m := range ms {
		fmt.Fprintln(bw, measurement.Format(m))
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write converted schedule: %w", err)
	}
	return len(ms), nil
}

// ConvertFile parses the round file at path and writes its line form to w.
func ConvertFile(ctx context.Context, path string, w io.Writer) (int, error) {
	plan, err := ParseFile(ctx, path)
	if err != nil {
		return 0, err
	}
	n, err := Emit(w, plan, path)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("Round file converted.", "file", path, "measurements", n)
	return n, nil
}
