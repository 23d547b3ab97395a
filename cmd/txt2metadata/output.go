package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/ajitpratap0/txt2metadata/pkg/json"
	"github.com/ajitpratap0/txt2metadata/pkg/txt2metadata"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func validateOutput(format string) error {
	switch format {
	case outputJSON, outputTable:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, expected %s or %s", format, outputJSON, outputTable)
	}
}

// printSuggestions writes suggestions to w in the given format
func printSuggestions(w io.Writer, format string, suggestions []txt2metadata.Metadata) error {
	if err := validateOutput(format); err != nil {
		return err
	}

	if format == outputJSON {
		if suggestions == nil {
			suggestions = []txt2metadata.Metadata{}
		}
		return json.MarshalIndentToWriter(w, suggestions, "  ")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Value", "Score", "Type"})
	table.SetAutoWrapText(false)
	for _, s := range suggestions {
		table.Append([]string{s.Value, strconv.Itoa(s.Score), s.Type})
	}
	table.Render()
	return nil
}
