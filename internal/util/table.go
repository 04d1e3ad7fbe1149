package util

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"
)

const (
	// TableFormatCSV represents data rendered as comma separated values.
	TableFormatCSV = "csv"

	// TableFormatJSON represents the raw data rendered as JSON.
	TableFormatJSON = "json"

	// TableFormatTable represents data rendered as a bordered table.
	TableFormatTable = "table"

	// TableFormatYAML represents the raw data rendered as YAML.
	TableFormatYAML = "yaml"

	// TableFormatCompact represents data rendered as a borderless table.
	TableFormatCompact = "compact"
)

// RenderTable renders tabular data in various formats. The "table" and
// "compact" formats render the headers and data columns, "csv" renders the
// data columns only and "json" and "yaml" render the raw data. The format may
// carry a ",noheader" or ",header" modifier to override the default.
func RenderTable(w io.Writer, format string, header []string, data [][]string, raw any) error {
	if w == nil {
		return fmt.Errorf("Invalid nil writer provided")
	}

	fields := strings.SplitN(format, ",", 2)
	format = fields[0]

	showHeader := format == TableFormatTable || format == TableFormatCompact
	if len(fields) == 2 {
		switch fields[1] {
		case "noheader":
			showHeader = false
		case "header":
			showHeader = true
		default:
			return fmt.Errorf("Invalid table format modifier %q", fields[1])
		}
	}

	switch format {
	case TableFormatTable:
		table := newBaseTable(w, tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleASCII),
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenRows: tw.On},
			},
		})

		return renderBaseTable(table, showHeader, header, data)

	case TableFormatCompact:
		table := newBaseTable(w, tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
				Lines:      tw.Lines{ShowHeaderLine: tw.Off},
			},
		})

		return renderBaseTable(table, showHeader, header, data)

	case TableFormatCSV:
		writer := csv.NewWriter(w)

		if showHeader {
			err := writer.Write(header)
			if err != nil {
				return err
			}
		}

		err := writer.WriteAll(data)
		if err != nil {
			return err
		}

		writer.Flush()

		return writer.Error()

	case TableFormatJSON:
		enc := json.NewEncoder(w)

		return enc.Encode(raw)

	case TableFormatYAML:
		out, err := yaml.Marshal(raw)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "%s", out)

		return err

	default:
		return fmt.Errorf("Invalid table format %q", format)
	}
}

func newBaseTable(w io.Writer, rendition tw.Rendition) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(rendition)),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
}

func renderBaseTable(table *tablewriter.Table, showHeader bool, header []string, data [][]string) error {
	if showHeader {
		table.Header(header)
	}

	err := table.Bulk(data)
	if err != nil {
		return err
	}

	return table.Render()
}
