package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/coffee-map/internal/adapter/kafka"
	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/pipeline"
)

var (
	buildOut     string
	buildProcess string
	buildMine    bool
	buildPublish bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Load the sheet once and write the map layers as JSON files",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := pipeline.ParseFilter(buildProcess, buildMine)
		if err != nil {
			return err
		}

		a := newApp(cfg)
		defer a.close()

		state := pipeline.NewState(a.loader, logger, metrics)
		if buildPublish {
			if len(cfg.KafkaBrokers) == 0 {
				return errors.New("--publish requires KAFKA_BROKERS")
			}
			writer := kafka.NewWriter(cfg, metrics, logger)
			defer func() {
				if err := writer.Close(); err != nil {
					logger.Error("kafka writer close error", "error", err)
				}
			}()
			state.WithPublisher(writer)
		}

		if err := state.Reload(cmd.Context()); err != nil {
			return err
		}
		view := state.SetFilter(filter)
		if err := writeLayers(buildOut, view); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", view.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "  records:      %d (%d dropped)\n", view.Records, state.Dataset().Dropped)
		fmt.Fprintf(cmd.OutOrStdout(), "  routes:       %d\n", len(view.Routes.Features))
		fmt.Fprintf(cmd.OutOrStdout(), "  cities:       %d\n", len(view.Cities.Features))
		fmt.Fprintf(cmd.OutOrStdout(), "  countries:    %d\n", len(view.Countries))
		fmt.Fprintf(cmd.OutOrStdout(), "  achievements: %d / %d\n", view.Earned, len(domain.Catalog()))
		fmt.Fprintf(cmd.OutOrStdout(), "written to %s\n", buildOut)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "dist", "Output directory for the layer files")
	buildCmd.Flags().StringVar(&buildProcess, "process", "", "Only include one process category (washed, natural, honey, anaerobic, experimental, other)")
	buildCmd.Flags().BoolVar(&buildMine, "mine", false, "Only include the sheet owner's tastings")
	buildCmd.Flags().BoolVar(&buildPublish, "publish", false, "Publish the loaded records to Kafka")
	rootCmd.AddCommand(buildCmd)
}

// layerFiles maps each output file to the part of the view it holds.
var layerFiles = []struct {
	name string
	pick func(pipeline.View) any
}{
	{"points.geojson", func(v pipeline.View) any { return v.Points }},
	{"routes.geojson", func(v pipeline.View) any { return v.Routes }},
	{"cities.geojson", func(v pipeline.View) any { return v.Cities }},
	{"countries.json", func(v pipeline.View) any {
		return map[string]any{"countries": v.Countries, "filter": v.CountryFilter}
	}},
	{"metrics.json", func(v pipeline.View) any { return v.Metrics }},
	{"achievements.json", func(v pipeline.View) any {
		return map[string]any{
			"earned":       v.Earned,
			"total":        len(domain.Catalog()),
			"achievements": v.Achievements,
		}
	}},
	{"view.json", func(v pipeline.View) any {
		return map[string]any{
			"title":    v.Title,
			"filter":   v.Filter,
			"records":  v.Records,
			"loadedAt": v.LoadedAt,
			"colors":   domain.ProcessColorExpression(),
		}
	}},
}

// writeLayers writes one JSON file per layer into dir.
func writeLayers(dir string, v pipeline.View) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, f := range layerFiles {
		data, err := json.MarshalIndent(f.pick(v), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}
