package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"expertree/pkg/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Normalize a legacy flat-history file",
	Long: `Converts a legacy flat list-of-turns conversation log into the canonical
document shape (synthetic root node, sniffed expert type, paired
user/assistant history) and writes it next to the input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store.New()

		// Load handles the legacy detection and conversion itself.
		doc, err := s.Load(args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(args[0]), ".json")
			out = base + "_converted"
		}

		path, err := s.WriteDocument(doc, filepath.Dir(args[0]), out)
		if err != nil {
			return err
		}
		fmt.Printf("Converted document written to %s (expert type: %s, %d history entries)\n",
			path, doc.Metadata.ExpertType, len(doc.ConversationHistory))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output filename (default: <input>_converted.json)")
	rootCmd.AddCommand(convertCmd)
}
