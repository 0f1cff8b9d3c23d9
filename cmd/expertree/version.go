package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release workflow; the default marks dev builds.
var version = "0.3.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the expertree version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("expertree %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
