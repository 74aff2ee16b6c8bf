package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinyzimmer/zipper/pkg/log"
)

var unpackDir string

func init() {
	unpackCmd.Flags().StringVarP(&unpackDir, "dir", "d", "", "The directory to extract into, defaults to the directory containing the archive")

	rootCmd.AddCommand(unpackCmd)
}

var unpackCmd = &cobra.Command{
	Use:   "unpack ARCHIVE...",
	Short: "Extract one or more zip archives",
	Long: `
Extracts every ARCHIVE into the directory given with --dir. A single archive may be
extracted without --dir, in which case it is unpacked next to itself. When several
archives are given a failure in one does not stop the others, every failure is
reported at the end.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		log.Infof("Unpacking %d archive(s) (%s)\n", len(args), zipper.Settings())
		var err error
		switch {
		case unpackDir != "":
			err = zipper.UnpackFiles(args, unpackDir)
		case len(args) == 1:
			err = zipper.UnpackHere(args[0])
		default:
			return errors.New("--dir is required when unpacking more than one archive")
		}
		if err != nil {
			return err
		}
		log.Infof("Unpacked in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}
