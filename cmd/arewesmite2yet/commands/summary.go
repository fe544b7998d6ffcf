package commands

import (
	"cmp"
	"log/slog"
	"os"
	"slices"

	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/internal/pipeline"
	"arewesmite2yet/pkg/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var summaryStatus string

func init() {
	summaryCmd.Flags().StringVar(&summaryStatus, "status", "", "Only list gods with this status (ported, not_ported or exclusive).")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary [--status <status>]",
	Short: "Prints port status counts and the gods of the catalog.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		entities, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			serviceutil.Fatal("failed to load catalog", err)
		}
		if err := catalog.Validate(entities); err != nil {
			slog.Warn("catalog is inconsistent", "err", err)
		}

		counts := pipeline.StatusCounts(entities)
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Status", "Gods"})
		for _, status := range []catalog.Status{catalog.StatusPorted, catalog.StatusExclusive, catalog.StatusNotPorted} {
			t.AppendRow(table.Row{status, counts[status]})
		}
		t.AppendFooter(table.Row{"Total", len(entities)})
		t.SetStyle(table.StyleRounded)
		t.Render()

		slices.SortFunc(entities, func(a, b catalog.Entity) int {
			return cmp.Compare(a.ID, b.ID)
		})

		gods := table.NewWriter()
		gods.SetOutputMirror(os.Stdout)
		gods.AppendHeader(table.Row{"ID", "Name", "Pantheon", "Class", "Status", "Released", "Ported"})
		for _, e := range entities {
			if summaryStatus != "" && string(e.Status) != summaryStatus {
				continue
			}
			released := ""
			if e.ReleaseDate != nil {
				released = *e.ReleaseDate
			}
			gods.AppendRow(table.Row{e.ID, e.Name, e.Pantheon, e.Class, e.Status, released, e.PortedDate})
		}
		gods.SetStyle(table.StyleRounded)
		gods.Render()
	},
}
