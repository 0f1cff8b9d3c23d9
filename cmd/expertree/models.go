package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expertree/internal/logging"
	"expertree/pkg/ollama"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := ollama.New(cfg.Host, ollama.WithLogger(logging.ForDebug(cfg.Debug)))

		version, err := client.Version(cmd.Context())
		if err != nil {
			cmd.SilenceUsage = true
			return fmt.Errorf("could not connect to Ollama at %s: %w", client.Host(), err)
		}

		models, err := client.Models(cmd.Context())
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}

		fmt.Printf("Ollama %s at %s\n", version, client.Host())
		if len(models) == 0 {
			fmt.Println("No models found. Pull one first, e.g.: ollama pull gemma3")
			return nil
		}
		for _, name := range models {
			fmt.Println("  " + name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
