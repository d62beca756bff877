// Package main provides the CLI entry point for mediaplan-go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/logging"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/output"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/store"
)

var (
	configPath  string
	outputPath  string
	jsonPath    string
	pretty      bool
	sqlitePath  string
	format      string
	concurrency int
	logLevel    string
	logFormat   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediaplan [flags] <workbook.xlsx>...",
		Short: "Normalize media plan workbooks into the canonical schema",
		Long: `mediaplan-go finds the data tables of media plan and delivery report
workbooks, maps their headers to canonical columns and writes one
canonical row set as xlsx, JSON or SQLite.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "Canonical config file (YAML or JSON; built-in defaults when absent or invalid)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Canonical xlsx output file, or directory for one file per input")
	rootCmd.Flags().StringVar(&jsonPath, "json", "", "JSON results file (- for stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database receiving records and errors")
	rootCmd.Flags().StringVar(&format, "format", "", "Force file format: planned or delivered")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 1, "Sheets and workbooks processed in parallel")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logLevel, logFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	forced, err := parseFormat(format)
	if err != nil {
		return err
	}

	for _, path := range args {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return eris.Errorf("file not found: %s", path)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, cfgErr := config.LoadOrDefault(configPath, logger)
	p := mediaplan.NewProcessor(cfg, mediaplan.Options{
		Format:      forced,
		Concurrency: concurrency,
		Logger:      logger,
		ConfigError: cfgErr,
	})
	results := p.ProcessBatch(ctx, args)

	if err := writeOutputs(ctx, results, logger); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	logger.Info("mediaplan: done", zap.Int("workbooks", len(results)), zap.Int("failed", failed))
	if failed > 0 {
		return eris.Errorf("%d of %d workbooks failed", failed, len(results))
	}
	return nil
}

func parseFormat(s string) (models.FileFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "planned":
		return models.FormatPlanned, nil
	case "delivered":
		return models.FormatDelivered, nil
	default:
		return "", eris.Errorf("invalid format: %s (must be planned or delivered)", s)
	}
}

func writeOutputs(ctx context.Context, results []*mediaplan.Result, logger *zap.Logger) error {
	if outputPath != "" {
		if err := writeWorkbooks(results); err != nil {
			return eris.Wrap(err, "failed to write canonical workbook")
		}
	}

	if jsonPath != "" {
		data, err := output.ToJSON(results, pretty)
		if err != nil {
			return eris.Wrap(err, "serialization failed")
		}
		if jsonPath == "-" {
			fmt.Println(string(data))
		} else if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			return eris.Wrap(err, "failed to write JSON output")
		}
	}

	if sqlitePath != "" {
		db, err := store.Open(ctx, sqlitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, r := range results {
			if err := db.Save(ctx, r); err != nil {
				return eris.Wrapf(err, "failed to store run of %s", r.File)
			}
			logger.Debug("mediaplan: stored run", zap.String("run_id", r.RunID), zap.String("file", r.File))
		}
	}
	return nil
}

// writeWorkbooks writes one combined workbook, or one workbook per input
// when --output names an existing directory.
func writeWorkbooks(results []*mediaplan.Result) error {
	info, err := os.Stat(outputPath)
	if err != nil || !info.IsDir() {
		return output.SaveXLSX(outputPath, results...)
	}
	for _, r := range results {
		base := strings.TrimSuffix(r.File, filepath.Ext(r.File))
		path := filepath.Join(outputPath, base+"_canonical.xlsx")
		if err := output.SaveXLSX(path, r); err != nil {
			return err
		}
	}
	return nil
}
