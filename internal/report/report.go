package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alexandre1a/cargo-freshen/internal/models/types"
	"github.com/alexandre1a/cargo-freshen/internal/operations"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Row status values.
const (
	StatusUpdate = "Update"
	StatusFresh  = "Fresh"
)

const unknownVersion = "unknown"

var (
	updateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	freshStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Row is one line of the status report.
type Row struct {
	Status  string `json:"status" yaml:"status"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Latest  string `json:"latest" yaml:"latest"`
	Source  string `json:"source" yaml:"source"`
}

// Rows turns records into report rows, keeping their order.
func Rows(records []types.PackageRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			Status:  StatusFresh,
			Name:    r.Name,
			Version: r.Installed.Original(),
			Latest:  unknownVersion,
			Source:  r.Provenance.URL(),
		}
		if r.Latest != nil {
			row.Latest = r.Latest.Original()
		}
		if operations.HasUpdate(r) {
			row.Status = StatusUpdate
		}
		rows = append(rows, row)
	}
	return rows
}

// Render writes records to w in the given format.
func Render(w io.Writer, format string, records []types.PackageRecord) error {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return Table(w, records)
	case FormatJSON:
		return JSON(w, records)
	case FormatYAML:
		return YAML(w, records)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

func Table(w io.Writer, records []types.PackageRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No installed packages."))
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Status", "Name", "Version", "Latest", "Source"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")

	for _, row := range Rows(records) {
		status := freshStyle.Render(row.Status)
		latest := row.Latest
		if row.Status == StatusUpdate {
			status = updateStyle.Render(row.Status)
		}
		if row.Latest == unknownVersion {
			latest = mutedStyle.Render(latest)
		}
		table.Append([]string{status, row.Name, row.Version, latest, row.Source})
	}
	table.Render()
	return nil
}

func JSON(w io.Writer, records []types.PackageRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(Rows(records)), "encoding json report")
}

func YAML(w io.Writer, records []types.PackageRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Rows(records)); err != nil {
		return errors.Wrap(err, "encoding yaml report")
	}
	return errors.Wrap(enc.Close(), "encoding yaml report")
}

// Summary prints the outcome of every install followed by the totals.
func Summary(w io.Writer, results []types.UpdateResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No packages to update.")
		return
	}

	fmt.Fprintln(w, "\nUpdate summary:")
	fmt.Fprintln(w, "------------------------")

	updated, skipped, failed := 0, 0, 0
	for _, result := range results {
		switch result.Status {
		case types.StatusSuccess:
			updated++
			if result.NewVersion != "" {
				fmt.Fprintf(w, "%s %s: %s -> %s\n", freshStyle.Render("✓"), result.Name, result.PreviousVersion, result.NewVersion)
			} else {
				fmt.Fprintf(w, "%s %s: reinstalled (%s)\n", freshStyle.Render("✓"), result.Name, result.PreviousVersion)
			}
		case types.StatusSkipped:
			skipped++
			fmt.Fprintf(w, "- %s: up to date (%s)\n", result.Name, result.PreviousVersion)
		case types.StatusError:
			failed++
			fmt.Fprintf(w, "%s %s: failed (%s)\n", errorStyle.Render("✗"), result.Name, result.Message)
		}
	}

	fmt.Fprintln(w, "------------------------")
	fmt.Fprintf(w, "Total: %d packages, %d updated, %d skipped, %d failed\n",
		len(results), updated, skipped, failed)
}
