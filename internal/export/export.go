// Package export writes simulation results to CSV, JSON or YAML files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agbru/dwsim/internal/dynamics"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/histogram"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is the exported form of a batch of replicas.
type Document struct {
	BatchID   string          `json:"batch_id" yaml:"batch_id"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	Params    dynamics.Config `json:"params" yaml:"params"`
	Runs      []Run           `json:"runs" yaml:"runs"`
	// Pooled is the histogram of every final opinion across replicas.
	Pooled []int `json:"pooled_histogram" yaml:"pooled_histogram"`
}

// Run is the exported form of one replica.
type Run struct {
	RunID     string              `json:"run_id" yaml:"run_id"`
	Index     int                 `json:"index" yaml:"index"`
	Seed      uint64              `json:"seed" yaml:"seed"`
	Clusters  int                 `json:"clusters" yaml:"clusters"`
	Summary   histogram.Summary   `json:"summary" yaml:"summary"`
	Final     []float64           `json:"final" yaml:"final"`
	Snapshots []dynamics.Snapshot `json:"snapshots,omitempty" yaml:"snapshots,omitempty"`
}

// InferFormat returns the format named by override, or the one implied by
// the extension of path.
func InferFormat(path, override string) (string, error) {
	if override != "" {
		switch override {
		case FormatCSV, FormatJSON, FormatYAML:
			return override, nil
		}
		return "", apperrors.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", override)}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", apperrors.ValidationError{
		Field:   "output",
		Message: fmt.Sprintf("cannot infer format from %q; use --format", filepath.Base(path)),
	}
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, format string, doc Document) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return encodeCSV(w, doc)
	}
	return apperrors.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", format)}
}

// CSVHeader is the header row of the CSV export. One row is written per
// agent and recorded step; the final vector uses step t_max.
var CSVHeader = []string{"batch_id", "run_id", "run", "seed", "step", "agent", "opinion"}

func encodeCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, run := range doc.Runs {
		series := run.Snapshots
		if len(series) == 0 || series[len(series)-1].Step != doc.Params.Steps {
			series = append(series[:len(series):len(series)], dynamics.Snapshot{Step: doc.Params.Steps, Opinions: run.Final})
		}
		for _, snap := range series {
			for agent, v := range snap.Opinions {
				rec := []string{
					doc.BatchID,
					run.RunID,
					strconv.Itoa(run.Index),
					strconv.FormatUint(run.Seed, 10),
					strconv.Itoa(snap.Step),
					strconv.Itoa(agent),
					strconv.FormatFloat(v, 'g', -1, 64),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile encodes doc into path, replacing any existing file. The file is
// written to a temporary sibling first and renamed into place.
func WriteFile(path, format string, doc Document) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dwsim-export-*")
	if err != nil {
		return apperrors.WrapError(err, "cannot create export file")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return apperrors.WrapError(err, "cannot create export file")
	}
	if err = Encode(tmp, format, doc); err != nil {
		_ = tmp.Close()
		return apperrors.WrapError(err, "cannot encode %s export", format)
	}
	if err = tmp.Close(); err != nil {
		return apperrors.WrapError(err, "cannot write export file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return apperrors.WrapError(err, "cannot write %s", path)
	}
	return nil
}
