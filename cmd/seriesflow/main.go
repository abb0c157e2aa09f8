package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/seriesflow/internal/pipeline"
	"github.com/ajitpratap0/seriesflow/pkg/config"
	"github.com/ajitpratap0/seriesflow/pkg/jsonutil"
	"github.com/ajitpratap0/seriesflow/pkg/logger"
	"github.com/ajitpratap0/seriesflow/pkg/table"
)

var version = "0.1.0"

// datasetFlags are the flags shared by every command that opens a dataset.
type datasetFlags struct {
	configFile string
	layout     string
	target     string
	timestamp  string
	itemID     string
	freq       string
	splitByID  bool
	staticCat  []string
	staticReal []string
	dynCat     []string
	dynReal    []string
	timeout    time.Duration
	logLevel   string
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to dataset configuration YAML file (optional)")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "long", "Input layout: single, long, or keyed")
	cmd.Flags().StringVar(&f.target, "target", "", "Target column name (default: target)")
	cmd.Flags().StringVar(&f.timestamp, "timestamp", "", "Timestamp column name (default: timestamp)")
	cmd.Flags().StringVar(&f.itemID, "item-id", "", "Series identifier column name (default: item_id)")
	cmd.Flags().StringVar(&f.freq, "freq", "", "Explicit frequency (e.g. 1H, D); inferred when empty")
	cmd.Flags().BoolVar(&f.splitByID, "split-by-id", false, "Split a single table into series by the identifier column")
	cmd.Flags().StringSliceVar(&f.staticCat, "static-cat", nil, "Static categorical feature columns")
	cmd.Flags().StringSliceVar(&f.staticReal, "static-real", nil, "Static real-valued feature columns")
	cmd.Flags().StringSliceVar(&f.dynCat, "dynamic-cat", nil, "Dynamic categorical feature columns")
	cmd.Flags().StringSliceVar(&f.dynReal, "dynamic-real", nil, "Dynamic real-valued feature columns")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 10*time.Minute, "Run timeout")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
}

// config builds the dataset configuration: YAML file first, then flag
// overrides on top.
func (f *datasetFlags) config() (*config.Config, error) {
	cfg := config.New()
	if f.configFile != "" {
		loaded, err := config.LoadFile(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.target != "" {
		cfg.TargetColumn = f.target
	}
	if f.timestamp != "" {
		cfg.TimestampColumn = f.timestamp
	}
	if f.itemID != "" {
		cfg.ItemIDColumn = f.itemID
	}
	if f.freq != "" {
		cfg.Freq = f.freq
	}
	if f.splitByID {
		cfg.SplitByID = true
	}
	if len(f.staticCat) > 0 {
		cfg.StaticCat = f.staticCat
	}
	if len(f.staticReal) > 0 {
		cfg.StaticReal = f.staticReal
	}
	if len(f.dynCat) > 0 {
		cfg.DynamicCat = f.dynCat
	}
	if len(f.dynReal) > 0 {
		cfg.DynamicReal = f.dynReal
	}
	return cfg, cfg.Validate()
}

// open initializes logging and builds the dataset for the input path.
func (f *datasetFlags) open(path string) (context.Context, context.CancelFunc, *pipeline.Layout, *config.Config, error) {
	if err := logger.Init(logger.Config{Level: f.logLevel, Encoding: "console"}); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	layout, err := pipeline.ParseLayout(f.layout)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cfg, err := f.config()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	return ctx, cancel, &layout, cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "seriesflow",
		Short: "seriesflow - time-series dataset adaptation tool",
		Long: `seriesflow converts tabular time-series data (CSV, JSON Lines) into
normalized per-series records ready for forecasting pipelines. It resolves
sampling frequencies, validates timestamp grids, and attaches static and
dynamic features to each series.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("seriesflow v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List supported input formats",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Supported input formats:")
			for _, format := range table.Formats() {
				fmt.Printf("  - %s\n", format)
			}
			fmt.Println("\nTransparent compression: .gz, .zst, .lz4, .snappy, .s2")
		},
	})

	inspectFlags := &datasetFlags{}
	inspectCmd := &cobra.Command{
		Use:   "inspect <path>",
		Short: "Summarize a dataset without exporting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], inspectFlags)
		},
	}
	inspectFlags.register(inspectCmd)
	root.AddCommand(inspectCmd)

	validateFlags := &datasetFlags{}
	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Check every series and report normalization problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], validateFlags)
		},
	}
	validateFlags.register(validateCmd)
	root.AddCommand(validateCmd)

	convertFlags := &datasetFlags{}
	var outputFile string
	convertCmd := &cobra.Command{
		Use:   "convert <path>",
		Short: "Convert a dataset to normalized JSON Lines",
		Long: `Convert reads tabular input, normalizes each series, and writes one JSON
object per series. Output compression follows the output file extension.

Example:
  seriesflow convert sales.csv --layout long --freq 1H -o series.jsonl.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], outputFile, convertFlags)
		},
	}
	convertFlags.register(convertCmd)
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")
	root.AddCommand(convertCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runInspect(path string, flags *datasetFlags) error {
	ctx, cancel, layout, cfg, err := flags.open(path)
	if err != nil {
		return err
	}
	defer cancel()

	ds, err := pipeline.Open(ctx, path, *layout, cfg)
	if err != nil {
		return err
	}

	summary, err := pipeline.Inspect(ctx, ds)
	if err != nil {
		return err
	}

	out, err := jsonutil.Marshal(summary)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runValidate(path string, flags *datasetFlags) error {
	ctx, cancel, layout, cfg, err := flags.open(path)
	if err != nil {
		return err
	}
	defer cancel()

	ds, err := pipeline.Open(ctx, path, *layout, cfg)
	if err != nil {
		return err
	}

	issues, err := pipeline.Validate(ctx, ds)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Printf("ok: %d series validated\n", ds.Len())
		return nil
	}
	for _, issue := range issues {
		fmt.Printf("series %s: %s\n", issue.Series, issue.Error)
	}
	return fmt.Errorf("%d of %d series failed validation", len(issues), ds.Len())
}

func runConvert(path, output string, flags *datasetFlags) error {
	ctx, cancel, layout, cfg, err := flags.open(path)
	if err != nil {
		return err
	}
	defer cancel()

	start := time.Now()
	ds, err := pipeline.Open(ctx, path, *layout, cfg)
	if err != nil {
		return err
	}

	written, err := pipeline.ExportFile(ctx, ds, output)
	if err != nil {
		return err
	}

	logger.Info("conversion complete",
		zap.Int("series", written),
		zap.String("output", output),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Printf("wrote %d series to %s in %v\n", written, output, time.Since(start).Round(time.Millisecond))
	return nil
}
