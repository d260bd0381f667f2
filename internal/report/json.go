package report

import (
	"context"
	"encoding/json"
	"io"

	"github.com/packagelint/packagelint/internal/lint"
)

// JSONReporter writes the run output as JSON once validation completes.
type JSONReporter struct {
	lint.BaseReporter
	Indent     bool
	OutputFile string
	// Writer overrides OutputFile when set.
	Writer io.Writer
}

type jsonOptions struct {
	fileOptions `mapstructure:",squash"`
	Indent      *bool `mapstructure:"indent"`
}

// NewJSONReporter builds a JSONReporter from reporter options
// (outputFile, indent; indent defaults to true).
func NewJSONReporter(options lint.Options) (lint.Reporter, error) {
	var o jsonOptions
	if err := decodeOptions(options, &o); err != nil {
		return nil, err
	}
	r := &JSONReporter{Indent: true, OutputFile: o.OutputFile}
	if o.Indent != nil {
		r.Indent = *o.Indent
	}
	return r, nil
}

// OnValidationComplete implements lint.Reporter.
func (r *JSONReporter) OnValidationComplete(_ context.Context, output *lint.Output) error {
	if r.Writer != nil {
		return r.Write(output, r.Writer)
	}
	return writeDocument(r.OutputFile, func(w io.Writer) error {
		return r.Write(output, w)
	})
}

// Write encodes output to w.
func (r *JSONReporter) Write(output *lint.Output, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if r.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(output)
}
