package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

var validFormats = []string{"text", "json", "yaml"}

func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %s", format, strings.Join(validFormats, ", "))
}

// Report is the result of resolving a town.
type Report struct {
	Phase      string          `json:"phase" yaml:"phase"`
	Components []ComponentRow  `json:"components,omitempty" yaml:"components,omitempty"`
	Guarded    int             `json:"guarded" yaml:"guarded"`
	Kept       int             `json:"kept" yaml:"kept"`
	Unresolved []UnresolvedRow `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
}

type ComponentRow struct {
	Type      string `json:"type" yaml:"type"`
	Qualifier string `json:"qualifier,omitempty" yaml:"qualifier,omitempty"`
	Count     int    `json:"count" yaml:"count"`
}

type UnresolvedRow struct {
	Type        string   `json:"type" yaml:"type"`
	Qualifier   string   `json:"qualifier,omitempty" yaml:"qualifier,omitempty"`
	Initializer string   `json:"initializer" yaml:"initializer"`
	Missing     []string `json:"missing" yaml:"missing"`
}

func writeReport(w io.Writer, format string, r Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		formatReportText(w, r)
		return nil
	}
}

// formatReportText writes the report as aligned columns.
func formatReportText(w io.Writer, r Report) {
	fmt.Fprintf(w, "phase: %s\n", r.Phase)

	if len(r.Components) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tQUALIFIER\tCOUNT")
		for _, c := range r.Components {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Type, c.Qualifier, c.Count)
		}
		tw.Flush()
		fmt.Fprintf(w, "guard patrols %d buildings, housekeeper keeps %d houses\n", r.Guarded, r.Kept)
	}

	if len(r.Unresolved) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "UNRESOLVED\tQUALIFIER\tWAITING ON\tMISSING")
		for _, u := range r.Unresolved {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Type, u.Qualifier, u.Initializer, strings.Join(u.Missing, ", "))
		}
		tw.Flush()
	}

	if r.Error != "" && len(r.Unresolved) == 0 {
		fmt.Fprintf(w, "error: %s\n", r.Error)
	}
}
