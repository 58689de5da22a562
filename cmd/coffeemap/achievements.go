package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/coffee-map/internal/domain"
)

var (
	achievementsAll  bool
	achievementsJSON bool
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Print the achievement panel for the current sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg)
		defer a.close()

		ds, err := a.loader.Load(cmd.Context())
		if err != nil {
			return err
		}
		results := domain.Evaluate(domain.ComputeMetrics(ds.Records, ds.Cities))
		if !achievementsAll {
			results = domain.Visible(results)
		}

		if achievementsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		printAchievements(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	achievementsCmd.Flags().BoolVar(&achievementsAll, "all", false, "Include achievements still locked behind a prerequisite")
	achievementsCmd.Flags().BoolVar(&achievementsJSON, "json", false, "Print JSON instead of a table")
	rootCmd.AddCommand(achievementsCmd)
}

func printAchievements(w io.Writer, results []domain.AchievementResult) {
	fmt.Fprintf(w, "Achievements: %d / %d earned\n", domain.EarnedCount(results), len(results))
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 40))
	for _, r := range results {
		mark := " "
		if r.Earned {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s %-32s %3.0f%%\n", mark, r.Emoji, r.Title, r.Progress*100)
	}
}
