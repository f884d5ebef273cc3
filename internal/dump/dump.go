// Package dump serializes a frozen registry into interchange formats for
// downstream documentation renderers, and renders validation failures as
// build-error output. The export is deterministic: records appear sorted by
// id, so identical inputs always produce identical bytes.
package dump

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vk/componentry/internal/model"
	"github.com/vk/componentry/internal/validate"
)

// Export is the interchange envelope.
type Export struct {
	Components []*model.ComponentRecord `json:"components" yaml:"components"`
}

// JSON writes the registry contents as indented JSON.
func JSON(w io.Writer, records []*model.ComponentRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export{Components: records}); err != nil {
		return fmt.Errorf("failed to encode registry as JSON: %w", err)
	}
	return nil
}

// YAML writes the registry contents as YAML.
func YAML(w io.Writer, records []*model.ComponentRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Export{Components: records}); err != nil {
		return fmt.Errorf("failed to encode registry as YAML: %w", err)
	}
	return enc.Close()
}

// WriteReports renders failed validation reports as one line per violation,
// in the (component id, field path, kind, message) shape build tooling
// expects.
func WriteReports(w io.Writer, reports []*validate.Report) {
	for _, report := range reports {
		io.WriteString(w, report.String())
	}
}
