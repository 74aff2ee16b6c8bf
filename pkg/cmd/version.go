package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinyzimmer/zipper/pkg/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information for zipper",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Zipper Version:", version.Version)
		fmt.Println("Zipper GitCommit:", version.Commit)
	},
}
