package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/righthome/righthome/internal/config"
)

const (
	appName = "righthome"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "righthome",
		Short:   "Property scoring and recommendation engine",
		Version: version,
		Long: `righthome scores properties across ten weighted categories and ranks
them into recommendation tiers.

Score a single listing, compare a batch, or run the API server:

   righthome score --input examples/property.json
   righthome compare --input examples/properties.json
   righthome serve --config config/scoring.yaml`,
		Run: runDefaultEntry,
	}

	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single property",
		Long:  "Compute the weighted category scores, total score, and recommendation tier for one property record",
		RunE:  runScore,
	}

	scoreCmd.Flags().String("input", "", "Path to a property JSON file (reads stdin when omitted)")
	scoreCmd.Flags().Bool("json", false, "Emit the full result as JSON")
	scoreCmd.Flags().String("preferences", "", "Buyer preferences passed to narrative analysis")
	scoreCmd.Flags().Bool("narrative", false, "Generate a narrative analysis (requires narrative.enabled)")
	addConfigFlag(scoreCmd.Flags())

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare and rank a batch of properties",
		Long:  "Score every property in a batch, rank them by total score, and report the best match and score spread",
		RunE:  runCompare,
	}

	compareCmd.Flags().String("input", "", "Path to a properties JSON file (reads stdin when omitted)")
	compareCmd.Flags().Bool("json", false, "Emit the full comparison as JSON")
	addConfigFlag(compareCmd.Flags())

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long:  "Start the JSON API with scoring, comparison, chart, property storage, websocket stream, and metrics endpoints",
		RunE:  runServe,
	}

	serveCmd.Flags().String("host", "", "Override the configured listen host")
	serveCmd.Flags().Int("port", 0, "Override the configured listen port")
	addConfigFlag(serveCmd.Flags())

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func addConfigFlag(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the scoring config file (optional)")
}

// loadConfig resolves the config path from the flag, falling back to
// the default file when it exists.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
			path = config.DefaultConfigPath()
		}
	}
	return config.Load(path)
}

// runDefaultEntry points non-interactive callers at the subcommands.
func runDefaultEntry(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, "righthome requires a subcommand in non-interactive use:\n\n")
		fmt.Fprintf(os.Stderr, "   righthome score --input property.json\n")
		fmt.Fprintf(os.Stderr, "   righthome compare --input properties.json --json\n")
		fmt.Fprintf(os.Stderr, "   righthome serve\n\n")
		os.Exit(2)
	}

	_ = cmd.Help()
}
