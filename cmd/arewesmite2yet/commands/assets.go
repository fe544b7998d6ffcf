package commands

import (
	"fmt"

	"arewesmite2yet/internal/assets"
	"arewesmite2yet/internal/pipeline"
	"arewesmite2yet/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var (
	assetsDryRun         bool
	assetsGod            string
	assetsThumbnailsOnly bool
	assetsImagesOnly     bool
	assetsSite           string
)

func init() {
	assetsCmd.Flags().BoolVar(&assetsDryRun, "dry-run", false, "Resolve urls without downloading anything or writing the catalog.")
	assetsCmd.Flags().StringVar(&assetsGod, "god", "", "Only process the god with this name.")
	assetsCmd.Flags().BoolVar(&assetsThumbnailsOnly, "thumbnails-only", false, "Only process thumbnails.")
	assetsCmd.Flags().BoolVar(&assetsImagesOnly, "images-only", false, "Only process full images.")
	assetsCmd.Flags().StringVar(&assetsSite, "site", "", "Only process assets of this site (smite1 or smite2).")
	assetsCmd.MarkFlagsMutuallyExclusive("thumbnails-only", "images-only")

	runCmd.Flags().BoolVar(&assetsDryRun, "dry-run", false, "Resolve asset urls without downloading them.")

	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(runCmd)
}

func assetOptions() (pipeline.AssetOptions, error) {
	opts := pipeline.AssetOptions{
		DryRun: assetsDryRun,
		God:    assetsGod,
	}
	switch {
	case assetsThumbnailsOnly:
		opts.Kinds = []assets.Kind{assets.KindThumbnail}
	case assetsImagesOnly:
		opts.Kinds = []assets.Kind{assets.KindFullImage}
	}
	switch assets.Site(assetsSite) {
	case "":
	case assets.SiteSmite1, assets.SiteSmite2:
		opts.Sites = []assets.Site{assets.Site(assetsSite)}
	default:
		return opts, fmt.Errorf("unknown site %q", assetsSite)
	}
	return opts, nil
}

var assetsCmd = &cobra.Command{
	Use:   "assets [--dry-run] [--god <name>] [--thumbnails-only | --images-only] [--site <smite1|smite2>]",
	Short: "Resolves and downloads god portraits.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := assetOptions()
		if err != nil {
			return err
		}

		a := newApp()
		defer a.close()

		summary, err := a.pipeline.AssetsFile(cmd.Context(), opts)
		if err != nil {
			a.close()
			serviceutil.Fatal("failed to download assets", err)
		}
		printSummary(summary)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run [--dry-run]",
	Short: "Runs build, reconcile, dates and assets in order.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.close()

		summaries, err := a.pipeline.Run(cmd.Context(), pipeline.AssetOptions{DryRun: assetsDryRun})
		for _, summary := range summaries {
			printSummary(summary)
		}
		if err != nil {
			a.close()
			serviceutil.Fatal("failed to run pipeline", err)
		}
	},
}
