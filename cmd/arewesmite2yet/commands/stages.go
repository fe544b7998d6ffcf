package commands

import (
	"arewesmite2yet/internal/pipeline"
	"arewesmite2yet/pkg/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(pantheonsCmd)
	rootCmd.AddCommand(cleanCmd)
}

// stageCmd wraps a stage that runs over the catalog file into a command.
func stageCmd(use, short string, stage func(cmd *cobra.Command, p *pipeline.Pipeline) (pipeline.Summary, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a := newApp()
			defer a.close()

			summary, err := stage(cmd, a.pipeline)
			if err != nil {
				a.close()
				serviceutil.Fatal("failed to run "+use, err)
			}
			printSummary(summary)
		},
	}
}

var buildCmd = stageCmd(
	"build",
	"Lists the gods of the smite 1 wiki into the catalog.",
	func(cmd *cobra.Command, p *pipeline.Pipeline) (pipeline.Summary, error) {
		return p.BuildFile(cmd.Context())
	},
)

var reconcileCmd = stageCmd(
	"reconcile",
	"Classifies every god against the smite 2 wiki and adds the smite 2 exclusives.",
	func(cmd *cobra.Command, p *pipeline.Pipeline) (pipeline.Summary, error) {
		return p.ReconcileFile(cmd.Context())
	},
)

var datesCmd = stageCmd(
	"dates",
	"Rewrites the dates of the catalog as YYYY-MM-DD.",
	func(cmd *cobra.Command, p *pipeline.Pipeline) (pipeline.Summary, error) {
		return p.NormalizeDatesFile()
	},
)

var pantheonsCmd = stageCmd(
	"pantheons",
	"Downloads pantheon icons and writes the pantheon index.",
	func(cmd *cobra.Command, p *pipeline.Pipeline) (pipeline.Summary, error) {
		return p.PantheonsFile(cmd.Context())
	},
)

var cleanCmd = stageCmd(
	"clean",
	"Deletes every downloaded image and strips image paths from the catalog.",
	func(cmd *cobra.Command, p *pipeline.Pipeline) (pipeline.Summary, error) {
		return p.CleanFile()
	},
)
