package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"expertree/pkg/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Check templates and saved conversations",
	Long: `Loads each file (converting legacy files on the fly), reports structural
validation failures, and flags graph problems like duplicate ids, dead
links, and unreachable nodes. With no arguments, the templates and history
directories are both scanned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		paths := args
		if len(paths) == 0 {
			paths = []string{cfg.TemplatesDir, cfg.HistoryDir}
		}

		s := store.New()
		passed, failed := 0, 0

		for _, path := range paths {
			for _, file := range expand(s, path) {
				doc, err := s.Load(file)
				if err != nil {
					fmt.Printf("FAIL %s: %v\n", file, err)
					failed++
					continue
				}
				if problems := store.CheckGraph(doc); len(problems) > 0 {
					fmt.Printf("WARN %s:\n%s\n", file, store.DescribeProblems(problems))
				}
				fmt.Printf("OK   %s\n", file)
				passed++
			}
		}

		fmt.Printf("\n%d passed, %d failed\n", passed, failed)
		if failed > 0 {
			cmd.SilenceUsage = true
			return fmt.Errorf("%d file(s) failed validation", failed)
		}
		return nil
	},
}

// expand turns a directory into its JSON files; files pass through untouched.
func expand(s *store.Store, path string) []string {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		return []string{path}
	}
	var files []string
	for _, name := range s.ListCandidates(path, ".json") {
		files = append(files, filepath.Join(path, name))
	}
	return files
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
