package commands

import (
	"log/slog"

	"arewesmite2yet/internal/catalog"
	"arewesmite2yet/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var exportDb string

func init() {
	exportCmd.Flags().StringVar(&exportDb, "db", "gods.db", "The sqlite database to write the catalog to.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--db <path/to/gods.db>]",
	Short: "Mirrors the catalog into a sqlite database.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		entities, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			serviceutil.Fatal("failed to load catalog", err)
		}
		err = catalog.ExportSQLite(cmd.Context(), exportDb, entities)
		if err != nil {
			serviceutil.Fatal("failed to export catalog", err)
		}
		slog.Info("exported catalog", "gods", len(entities), "db", exportDb)
	},
}
