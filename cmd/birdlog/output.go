package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type outputFormat string

var _ pflag.Value = (*outputFormat)(nil)

const (
	outputText outputFormat = "text"
	outputYAML outputFormat = "yaml"
)

func (f *outputFormat) String() string {
	return string(*f)
}

func (f *outputFormat) Set(value string) error {
	switch outputFormat(value) {
	case outputText, outputYAML:
		*f = outputFormat(value)
		return nil
	default:
		return fmt.Errorf("must be one of %q or %q", outputText, outputYAML)
	}
}

func (f *outputFormat) Type() string {
	return "format"
}

var (
	labelColor    = color.New(color.Bold)
	foundColor    = color.New(color.FgGreen)
	notFoundColor = color.New(color.FgYellow)
)

// render writes value as yaml, or calls text for the text format.
func render(w io.Writer, value any, text func(w io.Writer) error) error {
	if output == outputYAML {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("yaml.Encoder.Encode > %w", err)
		}
		return encoder.Close()
	}
	return text(w)
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		value = "-"
	}
	_, _ = labelColor.Fprintf(w, "%-10s", label+":")
	_, _ = fmt.Fprintln(w, value)
}
