package cmd

import (
	"errors"
	"log"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"

	zlog "github.com/tinyzimmer/zipper/pkg/log"
	"github.com/tinyzimmer/zipper/pkg/types"
)

var packOutput string

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	packCmd.Flags().StringVarP(&packOutput, "output", "o", path.Join(cwd, "archive.zip"), "The archive to write, when a directory a timestamped archive is created inside it")

	rootCmd.AddCommand(packCmd)
}

var packCmd = &cobra.Command{
	Use:   "pack SOURCE...",
	Short: "Pack files and directories into a zip archive",
	Long: `
Packs every SOURCE into a single zip archive. Each source is stored under the name of
its parent directory, so "zipper pack src/a src/b" produces entries below "src/".
Empty directories are kept as directory entries.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: pack,
}

func pack(cmd *cobra.Command, args []string) error {
	zlog.Infof("Packing %d source(s) into %q (%s)\n", len(args), packOutput, zipper.Settings())
	start := time.Now()
	if err := zipper.Pack(args, packOutput); err != nil {
		if errors.Is(err, types.ErrTargetExists) {
			// already reported to the user by the engine
			return nil
		}
		return err
	}
	zlog.Infof("Packed %q in %s\n", packOutput, time.Since(start).Round(time.Millisecond))
	return nil
}
