package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raca159/simple-label-maker/internal/app"
	"github.com/raca159/simple-label-maker/internal/config"
	"github.com/raca159/simple-label-maker/internal/importer"
	"github.com/raca159/simple-label-maker/internal/label"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Serve", "Stats").
func newApp(ctx context.Context, operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "slm",
	Short: "Simple label maker backend",
}

// stderrLogger surfaces importer warnings on the terminal without pulling
// in the full application logger.
type stderrLogger struct{}

func (stderrLogger) Debug(string, ...any) {}
func (stderrLogger) Info(string, ...any)  {}
func (stderrLogger) Warn(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: %s %v\n", msg, args)
}
func (stderrLogger) Error(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: %s %v\n", msg, args)
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Project file: %s\n", cfg.ProjectPath)
		fmt.Printf("Storage: %s (%s)\n", cfg.Storage.Type, cfg.Storage.FSRoot)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Listen Addr:  %s\n", cfg.ListenAddr)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Project File: %s\n", cfg.ProjectPath)
		fmt.Printf("Storage:      %s\n", cfg.Storage.Type)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the annotation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(ctx)
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View annotation progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, "Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Stats(ctx)
		if err != nil {
			return fmt.Errorf("computing stats: %w", err)
		}

		fmt.Printf("Samples:   %d\n", stats.TotalSamples)
		fmt.Printf("Annotated: %d\n", stats.AnnotatedSamples)
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import samples from other tools",
}

var importLabelStudioCmd = &cobra.Command{
	Use:   "label-studio",
	Short: "Convert a Label Studio task export to a sample list",
	RunE: func(cmd *cobra.Command, args []string) error {
		taskPath, _ := cmd.Flags().GetString("task")
		sampleType, _ := cmd.Flags().GetString("type")
		metadataJSON, _ := cmd.Flags().GetString("metadata")
		dataField, _ := cmd.Flags().GetString("data-field")
		output, _ := cmd.Flags().GetString("output")

		var metadata map[string]string
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return fmt.Errorf("parsing metadata: %w", err)
		}

		f, err := os.Open(taskPath)
		if err != nil {
			return fmt.Errorf("opening task file: %w", err)
		}
		defer f.Close()

		samples, err := importer.ConvertLabelStudio(f, importer.Options{
			SampleType: label.SampleType(sampleType),
			Metadata:   metadata,
			DataField:  dataField,
		}, stderrLogger{})
		if err != nil {
			return fmt.Errorf("converting tasks: %w", err)
		}

		if err := importer.WriteSamples(output, samples); err != nil {
			return err
		}

		fmt.Printf("Converted %d task(s) to %s\n", len(samples), output)
		fmt.Println("Add the samples to your project file's samples section.")
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// import subcommands
	importCmd.AddCommand(importLabelStudioCmd)
	importLabelStudioCmd.Flags().String("task", "", "Path to the Label Studio task JSON file")
	importLabelStudioCmd.Flags().String("type", "", "Sample type for all samples (image, text, audio, video, time-series)")
	importLabelStudioCmd.Flags().String("metadata", "{}", "JSON object of metadata applied to all samples")
	importLabelStudioCmd.Flags().String("data-field", "", "Task data field holding the content URL (default: first field)")
	importLabelStudioCmd.Flags().String("output", "samples.yaml", "Output file path")
	_ = importLabelStudioCmd.MarkFlagRequired("task")
	_ = importLabelStudioCmd.MarkFlagRequired("type")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(importCmd)
}
