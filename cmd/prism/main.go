package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/prism-stats/prism/pkg/config"
	"github.com/prism-stats/prism/pkg/family"
	"github.com/prism-stats/prism/pkg/logger"
	"github.com/prism-stats/prism/pkg/model"
	"github.com/prism-stats/prism/pkg/observability"
	"github.com/prism-stats/prism/pkg/registry"
	"github.com/prism-stats/prism/pkg/summary"
	"github.com/prism-stats/prism/pkg/table"

	// Import built-in model families to register their adapters and loaders
	_ "github.com/prism-stats/prism/pkg/family/kmeans"
	_ "github.com/prism-stats/prism/pkg/family/linear"
)

var version = "0.1.0"

func main() {
	var logLevel string
	var trace bool

	root := &cobra.Command{
		Use:   "prism",
		Short: "Prism - standardized tabular summaries of fitted models",
		Long: `Prism turns the fitted model of any registered model family into one of three
standardized tables: glance (one row per model), tidy (one row per component)
and augment (one row per observation).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.Config{Level: viper.GetString("log_level")}); err != nil {
				return err
			}
			if viper.GetBool("trace") {
				return observability.Init(observability.Config{
					ServiceName:    "prism",
					ServiceVersion: version,
					PrettyPrint:    true,
				})
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&trace, "trace", false, "Emit OpenTelemetry spans to stdout")
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("trace", root.PersistentFlags().Lookup("trace"))
	viper.SetEnvPrefix("PRISM")
	viper.AutomaticEnv()

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Prism v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered model families and their capabilities",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Model file loaders:")
			for _, name := range family.ListFamilies() {
				fmt.Printf("  - %s\n", name)
			}
			fmt.Println("\nRegistered adapters:")
			for _, tag := range registry.ListTypeTags() {
				kinds := registry.Kinds(tag)
				names := make([]string, len(kinds))
				for i, k := range kinds {
					names[i] = string(k)
				}
				fmt.Printf("  - %s: %s\n", tag, strings.Join(names, ", "))
			}
		},
	})

	root.AddCommand(newGlanceCmd(), newTidyCmd(), newAugmentCmd())

	defer func() { _ = logger.Sync() }()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// outputFlags are shared by the three summarize commands
type outputFlags struct {
	modelFile string
	output    string
	format    string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.modelFile, "model", "m", "", "Path to serialized model JSON file (required)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output path; stdout when omitted, gzipped when it ends in .gz")
	cmd.Flags().StringVarP(&f.format, "format", "f", "csv", "Output format (csv, json, yaml)")
	_ = cmd.MarkFlagRequired("model")
}

func (f *outputFlags) loadModel() (model.Model, error) {
	data, err := os.ReadFile(f.modelFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", f.modelFile, err)
	}
	return family.Decode(data)
}

func newGlanceCmd() *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:   "glance",
		Short: "One-row model-level summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.loadModel()
			if err != nil {
				return err
			}
			tbl, err := summary.Glance(m, config.DefaultOptions())
			if err != nil {
				return err
			}
			return writeTable(tbl, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newTidyCmd() *cobra.Command {
	var flags outputFlags
	var ci, exponentiate, quick bool
	var level float64

	cmd := &cobra.Command{
		Use:   "tidy",
		Short: "One row per model component",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.loadModel()
			if err != nil {
				return err
			}
			opts := config.DefaultOptions()
			opts.ConfInt = ci
			opts.ConfLevel = level
			opts.Exponentiate = exponentiate
			opts.Quick = quick

			tbl, err := summary.Tidy(m, opts)
			if err != nil {
				return err
			}
			return writeTable(tbl, &flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&ci, "ci", false, "Add conf.low/conf.high columns")
	cmd.Flags().Float64Var(&level, "level", config.DefaultConfLevel, "Confidence level, used with --ci")
	cmd.Flags().BoolVar(&exponentiate, "exponentiate", false, "Exponentiate estimates and interval bounds")
	cmd.Flags().BoolVar(&quick, "quick", false, "Return only term and estimate columns")
	return cmd
}

func newAugmentCmd() *cobra.Command {
	var flags outputFlags
	var dataFile, newDataFile string

	cmd := &cobra.Command{
		Use:   "augment",
		Short: "Input data with derived per-observation columns",
		Long: `Augment appends derived columns (.fitted, .resid, .cluster, ...) to the input
dataset. The dataset comes from --new-data, else --data, else the training
data carried inside the model file. Row count and order always match the
input exactly; rows the model excluded carry NA in every derived column.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.loadModel()
			if err != nil {
				return err
			}

			opts := config.DefaultOptions()
			if opts.Data, err = readDataFile(dataFile); err != nil {
				return err
			}
			if opts.NewData, err = readDataFile(newDataFile); err != nil {
				return err
			}

			tbl, err := summary.Augment(m, opts)
			if err != nil {
				return err
			}
			return writeTable(tbl, &flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&dataFile, "data", "", "CSV file with the original fitting data")
	cmd.Flags().StringVar(&newDataFile, "new-data", "", "CSV file with new data to predict on (takes precedence over --data)")
	return cmd
}

func readDataFile(path string) (*table.Table, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}
	defer f.Close()
	return table.ReadCSV(f)
}

func writeTable(tbl *table.Table, flags *outputFlags) error {
	var w io.Writer = os.Stdout

	if flags.output != "" {
		f, err := os.Create(flags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", flags.output, err)
		}
		defer f.Close()
		w = f

		if strings.HasSuffix(flags.output, ".gz") {
			gz := gzip.NewWriter(f)
			defer gz.Close()
			w = gz
		}
	}

	switch flags.format {
	case "csv":
		return tbl.WriteCSV(w)
	case "json":
		data, err := tbl.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case "yaml":
		data, err := tbl.EncodeYAML()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		logger.Get().Error("unknown output format", zap.String("format", flags.format))
		return fmt.Errorf("unknown output format %q", flags.format)
	}
}
