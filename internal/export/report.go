// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// WriteReport writes the flat failure report: one "filename | item-key"
// line per failure. Nothing is written when there are no failures.
func WriteReport(path string, failures []Failure) error {
	if len(failures) == 0 {
		return nil
	}
	var b strings.Builder
	for _, f := range failures {
		fmt.Fprintf(&b, "%s | %s\n", f.Filename, f.ItemKey)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing failure report: %w", err)
	}
	return nil
}

// reportSummary is the YAML shape of a run summary.
type reportSummary struct {
	Written  int             `yaml:"written"`
	Failed   int             `yaml:"failed"`
	Warnings int             `yaml:"warnings"`
	Failures []reportFailure `yaml:"failures,omitempty"`
}

type reportFailure struct {
	Filename string `yaml:"filename"`
	ItemKey  string `yaml:"item_key"`
	Reason   string `yaml:"reason"`
}

// WriteSummaryYAML writes the run summary, including failure reasons, as
// a YAML file.
func WriteSummaryYAML(path string, s Summary, failures []Failure) error {
	out := reportSummary{
		Written:  s.Written,
		Failed:   s.Failed,
		Warnings: s.Warnings,
	}
	for _, f := range failures {
		out.Failures = append(out.Failures, reportFailure{
			Filename: f.Filename,
			ItemKey:  f.ItemKey,
			Reason:   f.Err.Error(),
		})
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
