// marketcli は煤炭行情データの生成・分析・予測・出力をオフラインで実行するCLIです。
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	config "coal-market-api/configs"
	"coal-market-api/pkg/models"
	"coal-market-api/pkg/services"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliOptions は全サブコマンド共通のフラグ
type cliOptions struct {
	count    int
	seed     int64
	timezone string
	catalog  string
}

// engine はフラグから分析エンジンを組み立てます。
func (o *cliOptions) engine() (*services.MarketAnalyticsService, error) {
	catalog, err := config.LoadMarketCatalog(o.catalog)
	if err != nil {
		return nil, err
	}
	return services.NewMarketAnalyticsService(
		services.NewRandomSource(o.seed),
		services.WithCatalog(catalog),
		services.WithLocation(services.LoadLocation(o.timezone)),
	), nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "marketcli",
		Short:         "Coal market analytics from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().IntVar(&opts.count, "count", 800, "number of historical records to generate")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed (0 = time based)")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", services.DefaultTimezone, "timezone for date bounds")
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "market catalog YAML file")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newPredictCmd(opts))
	root.AddCommand(newExportCmd(opts))
	return root
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- Generate Command ---

func newGenerateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a historical dataset (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), engine.GenerateHistoricalData(opts.count))
		},
	}
}

// --- Analyze Command ---

type analyzeFlags struct {
	location string
	coalType string
	start    string
	end      string
}

func newAnalyzeCmd(opts *cliOptions) *cobra.Command {
	flags := &analyzeFlags{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Filter a generated dataset and print stats, series and the analysis report",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			start, err := services.ParseDate(flags.start, engine.Location())
			if err != nil {
				return err
			}
			end, err := services.ParseDate(flags.end, engine.Location())
			if err != nil {
				return err
			}

			dataset := engine.GenerateHistoricalData(opts.count)
			filtered, stats := engine.FilterAndAggregate(dataset, models.FilterCriteria{
				Location: flags.location,
				Type:     flags.coalType,
				Start:    start,
				End:      end,
			})

			var prediction *models.PredictionResult
			if p, err := engine.PredictNextDay(dataset); err == nil {
				prediction = &p
			}
			report := engine.GenerateAIAnalysis(filtered, flags.start, flags.end, engine.GeneratePolicyNews(), prediction)

			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"stats":  stats,
				"series": engine.PrepareChartSeries(filtered),
				"report": report,
			})
		},
	}
	cmd.Flags().StringVar(&flags.location, "location", models.WildcardSelector, "location selector")
	cmd.Flags().StringVar(&flags.coalType, "type", models.WildcardSelector, "coal type selector")
	cmd.Flags().StringVar(&flags.start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.end, "end", "", "end date (YYYY-MM-DD)")
	return cmd
}

// --- Predict Command ---

func newPredictCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Predict the next-day movement over a generated dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			prediction, err := engine.PredictNextDay(engine.GenerateHistoricalData(opts.count))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), prediction)
		},
	}
}

// --- Export Command ---

func newExportCmd(opts *cliOptions) *cobra.Command {
	var start, end, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the records within a date range to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			startAt, err := services.ParseDate(start, engine.Location())
			if err != nil {
				return err
			}
			endAt, err := services.ParseDate(end, engine.Location())
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = services.ExportFileName(start, end)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("出力ファイルの作成に失敗: %w", err)
			}
			defer f.Close()

			exporter := services.NewExportService(engine, nil)
			count, err := exporter.WriteWorkbook(f, engine.GenerateHistoricalData(opts.count), startAt, endAt)
			if err != nil {
				_ = os.Remove(outPath)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", count, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: derived from the date range)")
	return cmd
}
