package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the SQLite history store",
	Long: `Run an arbitrary SQL query against the history database and print results as a table.
Requires --backend sqlite.

Schema overview:
  records(key, body, updated_at)
    key 'history' holds the full history document, 'last_run' the last run result
  season_snapshots(season, participant, team, wins, losses, ot_losses, points,
    goals_for, goals_against, division_rank, conference_rank, league_rank,
    playoff_wins, captured_at)

Example: poolstats --backend sqlite sql "SELECT participant, SUM(playoff_wins) FROM season_snapshots GROUP BY 1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	if backend != backendSQLite {
		return fmt.Errorf("sql needs --backend %s", backendSQLite)
	}
	query := strings.Join(args, " ")
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	cols, rows, err := st.db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
