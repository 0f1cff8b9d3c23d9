package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"expertree/internal/author"
	"expertree/pkg/domain"
	"expertree/pkg/store"
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Author a decision-tree template",
	Long: `Writes a template into the templates directory. By default this is the
full built-in catalog (category menu, expert menu, free chat per expert).
Use --expert for a single-expert template or --custom for the interactive
tree builder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		expert, _ := cmd.Flags().GetString("expert")
		custom, _ := cmd.Flags().GetBool("custom")

		var doc *domain.Document
		name := "expert_selection_template"
		switch {
		case custom:
			doc, err = author.NewWizard(os.Stdin, os.Stdout).Run()
			if err != nil {
				return err
			}
			name = "custom_decision_tree"
		case expert != "":
			doc = author.BuildExpertTemplate(expert, time.Now())
			name = store.SanitizeLabel(expert) + "_decision_tree_template"
		default:
			doc = author.BuildCatalogTemplate(time.Now())
		}
		if len(args) > 0 {
			name = args[0]
		}

		if err := store.Validate(doc); err != nil {
			return fmt.Errorf("generated template is invalid: %w", err)
		}

		path, err := store.New().WriteDocument(doc, cfg.TemplatesDir, name)
		if err != nil {
			return err
		}
		fmt.Printf("Template written to %s\n", path)
		return nil
	},
}

func init() {
	newCmd.Flags().String("expert", "", "Generate a single-expert template for this expert type")
	newCmd.Flags().Bool("custom", false, "Build a custom category/expert tree interactively")
	rootCmd.AddCommand(newCmd)
}
