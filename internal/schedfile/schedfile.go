// Package schedfile reads schedule files. The line form is parsed into
// measurement records; the round-based forms are recognised by extension only
// so callers can refuse them with a clear message.
package schedfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/measched/internal/ctxlog"
	"github.com/specialistvlad/measched/internal/measurement"
)

// ErrUnsupportedForm is returned when a round-based file is handed to the loader.
var ErrUnsupportedForm = errors.New("unsupported schedule form, convert it to line form first")

// Form identifies how a schedule file is written.
type Form int

const (
	// FormLines is the line grammar understood by the scheduler.
	FormLines Form = iota
	// FormRoundsHCL is the round-based form written in HCL.
	FormRoundsHCL
	// FormRoundsYAML is the round-based form written in YAML.
	FormRoundsYAML
)

// String returns the form name used in logs and messages.
func (f Form) String() string {
	switch f {
	case FormRoundsHCL:
		return "rounds-hcl"
	case FormRoundsYAML:
		return "rounds-yaml"
	default:
		return "lines"
	}
}

// IsRounds reports whether f is one of the round-based forms.
func (f Form) IsRounds() bool {
	return f == FormRoundsHCL || f == FormRoundsYAML
}

// DetectForm selects the form from the file extension. Unknown extensions are
// treated as line form.
func DetectForm(path string) Form {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return FormRoundsHCL
	case ".yaml", ".yml":
		return FormRoundsYAML
	default:
		return FormLines
	}
}

// ReadFile reads every record from a line-form schedule file.
func ReadFile(ctx context.Context, path string) ([]*measurement.Measurement, error) {
	if form := DetectForm(path); form.IsRounds() {
		return nil, fmt.Errorf("%s (%s): %w", path, form, ErrUnsupportedForm)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule file: %w", err)
	}
	defer f.Close()

	records, err := Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read parses line-form records from r in source order. The first invalid
// line aborts the read; its error is a *measurement.RecordError.
func Read(ctx context.Context, r io.Reader) ([]*measurement.Measurement, error) {
	logger := ctxlog.FromContext(ctx)

	var records []*measurement.Measurement
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		m, err := measurement.ParseLine(scanner.Text())
		if err != nil {
			return nil, &measurement.RecordError{Line: lineNo, Err: err}
		}
		if m == nil {
			continue
		}
		records = append(records, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}

	logger.Debug("Schedule records parsed.", "lines", lineNo, "records", len(records))
	return records, nil
}
