package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/model"
)

var (
	exportParticipant string
	exportSince       string
	exportOut         string
)

// historyExport is the document written by the export command.
type historyExport struct {
	GeneratedAt string           `json:"generated_at"`
	Backend     string           `json:"backend"`
	SeasonCount int              `json:"season_count"`
	Rows        []exportSnapshot `json:"rows"`
}

type exportSnapshot struct {
	Season      string `json:"season"`
	Participant string `json:"participant"`
	model.SeasonStatSnapshot
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded season snapshots as JSON",
	Long: `Write every recorded snapshot as a flat JSON list, ordered by season then
participant. Use it to move history between backends or feed other tools.

Example:
  poolstats export --since 20202021 --out pool-history.json
  poolstats export --participant Alice`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportParticipant, "participant", "", "only export this participant")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only export seasons from this one on (e.g. 20202021)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(_ *cobra.Command, _ []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	out := historyExport{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Backend:     backend,
		Rows:        []exportSnapshot{},
	}
	seasons := map[string]bool{}
	for _, r := range st.history.Load().Rows() {
		if exportParticipant != "" && r.Participant != exportParticipant {
			continue
		}
		// Season ids are fixed-width start/end years, so string order is season order.
		if exportSince != "" && r.Season < exportSince {
			continue
		}
		seasons[r.Season] = true
		out.Rows = append(out.Rows, exportSnapshot{Season: r.Season, Participant: r.Participant, SeasonStatSnapshot: r.SeasonStatSnapshot})
	}
	out.SeasonCount = len(seasons)
	if len(out.Rows) == 0 {
		fmt.Fprintln(os.Stderr, "hint: no snapshots matched; run 'poolstats list' to see recorded seasons")
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}

	if exportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOut, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d snapshot(s) to %s\n", len(out.Rows), exportOut)
	return nil
}
