package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

var (
	// Global flags
	rulesPath string
	workers   int
	jsonOut   bool
	verbose   bool

	// Logger
	logger *zap.Logger
)

// errComplianceFailed signals a completed run with error-severity
// violations: the report has already been rendered, only the exit code is
// left to set.
var errComplianceFailed = errors.New("compliance check failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "layerlint [path]",
	Short: "layerlint - four-layer architecture compliance checker",
	Long: `layerlint verifies a source tree against the four-layer architecture:

  layer1  pure computation (no state, no observable side effects)
  layer2  immutable contracts and configuration
  layer3  concurrent stateful logic (atomic, never shared)
  layer4  orchestration and composition (owns layer 3 by value)

Artifacts are classified by naming markers (_genetic., _membrane.,
_nervous., _conscious., /layerN/ path segments) and checked with lexical
pattern heuristics over raw source text. This is deliberately shallow:
false positives and false negatives are possible.

Exit code is 0 when no error-severity violation was found, 1 otherwise.
Warnings never fail a run.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runScan,
}

// serveCmd exposes the engine over MCP stdio
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the compliance tools over MCP stdio",
	Long: `Starts an MCP server on stdin/stdout exposing the check_compliance,
classify_artifact, and list_rules tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ServeStdio(newMCPServer())
	},
}

// rulesCmd prints the effective rule catalog
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, rule := range catalog.Rules {
			fmt.Printf("%-26s %-8s %-18s %s\n",
				rule.ID, rule.Severity, strings.Join(rule.Layers, ","), rule.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "path to a rule catalog YAML file (default: built-in catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "evaluation parallelism (default: number of CPUs)")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "emit the report as JSON instead of text")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rulesCmd)
}

func loadCatalog() (*Catalog, error) {
	if rulesPath != "" {
		return LoadCatalogFile(rulesPath)
	}
	return DefaultCatalog()
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	logger.Debug("loaded rule catalog", zap.Int("rules", len(catalog.Rules)))

	artifacts, err := CollectArtifacts(root, logger)
	if err != nil {
		return fmt.Errorf("failed to collect artifacts: %w", err)
	}
	logger.Debug("collected artifacts", zap.Int("count", len(artifacts)))

	engine := NewEngine(catalog, WithWorkers(workers), WithLogger(logger))
	report, err := engine.Run(cmd.Context(), artifacts)
	if err != nil {
		return err
	}

	if jsonOut {
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Println(string(jsonData))
	} else {
		report.Render(os.Stdout)
	}

	if report.ExitCode() != 0 {
		return errComplianceFailed
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errComplianceFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
