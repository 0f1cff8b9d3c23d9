package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expertree/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "expertree",
	Short: "Decision-tree expert conversations for Ollama",
	Long: `Expertree walks you through a JSON-authored decision tree to converse with
an expert persona backed by a locally running Ollama server. Conversations
are saved as JSON and can be resumed, converted, and validated.`,
}

// Execute runs the root command and maps failures to exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default: ./"+config.DefaultFile+")")
	pf.String("host", "", "Ollama base URL (overrides config and OLLAMA_HOST)")
	pf.String("model", "", "Model name (skips interactive selection)")
	pf.Bool("debug", false, "Enable debug logging to stderr")
	pf.Bool("no-color", false, "Disable colored output")
}

// loadConfig builds the effective config: file + env, then flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Host = host
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.NoColor = true
	}
	return cfg, nil
}
