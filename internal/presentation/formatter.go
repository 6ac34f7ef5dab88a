package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a machine-readable output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json" or "yaml" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or yaml)", s)
	}
}

// Formatter writes DTOs to w in one format.
type Formatter struct {
	writer io.Writer
	format Format
}

// NewFormatter creates a formatter. An empty format means JSON.
func NewFormatter(writer io.Writer, format Format) *Formatter {
	if format == "" {
		format = FormatJSON
	}
	return &Formatter{writer: writer, format: format}
}

// FormatShows writes a list of shows.
func (f *Formatter) FormatShows(shows []ShowDTO) error {
	return f.encode(shows)
}

// FormatTree writes a registration tree, collapsed subtrees included.
func (f *Formatter) FormatTree(nodes []NodeDTO) error {
	return f.encode(nodes)
}

func (f *Formatter) encode(v any) error {
	switch f.format {
	case FormatYAML:
		enc := yaml.NewEncoder(f.writer)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", f.format)
	}
}
