package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var errUnsupportedFormat = errors.New("unsupported output format")

// sessionSummary mirrors session.Summary's JSON shape returned by
// GET /switches-sessions (IdleFor serializes as a time.Duration, i.e.
// nanoseconds, since Summary carries no json tags).
type sessionSummary struct {
	ID       string        `json:"ID"`
	Model    string        `json:"Model"`
	Hostname string        `json:"Hostname"`
	State    string        `json:"State"`
	IdleFor  time.Duration `json:"IdleFor"`
}

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List switch sessions currently open on a running netmand",
	}
	cmd.AddCommand(sessionsListCmd())
	return cmd
}

func sessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open switch sessions",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sessions, err := fetchSessions()
			if err != nil {
				return err
			}
			out, err := formatSessions(sessions, outputFormat)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
}

func fetchSessions() ([]sessionSummary, error) {
	resp, err := httpClient.Get("http://" + serverAddr + "/switches-sessions/")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list sessions: daemon returned %s: %s", resp.Status, body)
	}

	var sessions []sessionSummary
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("decode sessions response: %w", err)
	}
	return sessions, nil
}

func formatSessions(sessions []sessionSummary, format string) (string, error) {
	switch format {
	case "json":
		b, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "table", "":
		return renderSessionsTable(sessions), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func renderSessionsTable(sessions []sessionSummary) string {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"ID", "MODEL", "HOSTNAME", "STATE", "IDLE"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, s := range sessions {
		table.Append([]string{s.ID, s.Model, s.Hostname, s.State, s.IdleFor.Round(time.Second).String()})
	}
	table.Render()
	return buf.String()
}
