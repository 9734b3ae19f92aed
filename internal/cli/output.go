package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"planets-mapgen/internal/galaxy"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q", v)
	}
}

type galaxyReport struct {
	Name           string         `json:"name" yaml:"name"`
	Seed           int64          `json:"seed" yaml:"seed"`
	UniverseRadius float64        `json:"universe_radius" yaml:"universe_radius"`
	Systems        []systemReport `json:"systems" yaml:"systems"`
}

type systemReport struct {
	Index  int          `json:"index" yaml:"index"`
	Name   string       `json:"name" yaml:"name"`
	X      float64      `json:"x" yaml:"x"`
	Y      float64      `json:"y" yaml:"y"`
	Radius float64      `json:"radius" yaml:"radius"`
	Bodies []bodyReport `json:"bodies,omitempty" yaml:"bodies,omitempty"`
}

type bodyReport struct {
	Kind       string  `json:"kind" yaml:"kind"`
	ResourceID string  `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
}

func newGalaxyReport(g *galaxy.Galaxy) galaxyReport {
	report := galaxyReport{
		Name:           g.Name,
		Seed:           g.Seed,
		UniverseRadius: g.UniverseRadius,
		Systems:        make([]systemReport, 0, len(g.Systems)),
	}
	for _, s := range g.Systems {
		row := systemReport{Index: s.SystemIndex, Name: s.Name, X: s.X, Y: s.Y, Radius: s.Radius}
		for _, b := range s.Bodies {
			row.Bodies = append(row.Bodies, bodyReport{Kind: string(b.Kind), ResourceID: b.ResourceID, X: b.X, Y: b.Y})
		}
		report.Systems = append(report.Systems, row)
	}
	return report
}

func renderGalaxy(out io.Writer, g *galaxy.Galaxy, format Format) error {
	report := newGalaxyReport(g)

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return encoder.Close()
	default:
		return renderTable(out, report)
	}
}

func renderTable(out io.Writer, report galaxyReport) error {
	_, _ = fmt.Fprintf(out, "galaxy %s (seed %d, radius %.0f)\n", report.Name, report.Seed, report.UniverseRadius)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tNAME\tX\tY\tRADIUS\tBODIES")
	for _, s := range report.Systems {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%.1f\t%.1f\t%.1f\t%d\n", s.Index, s.Name, s.X, s.Y, s.Radius, len(s.Bodies))
	}
	return w.Flush()
}
