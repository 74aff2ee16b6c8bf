package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tinyzimmer/zipper/pkg/config"
	"github.com/tinyzimmer/zipper/pkg/engine"
	"github.com/tinyzimmer/zipper/pkg/log"
	"github.com/tinyzimmer/zipper/pkg/types"
)

var (
	configPath string
	bufferSize int
	level      int
	charset    string
	overwrite  bool

	provider *config.Provider
	zipper   types.Engine
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "The configuration file to use, defaults to ./zip.config then ~/.zipper/zip.config")
	rootCmd.PersistentFlags().IntVarP(&bufferSize, "buffer-size", "b", config.DefaultBufferSize, "The buffer size used when streaming entries, rounded up to a power of two between 256 and 65536")
	rootCmd.PersistentFlags().IntVarP(&level, "level", "l", config.DefaultLevel, "The compression level to use, between 1 and 8")
	rootCmd.PersistentFlags().StringVar(&charset, "charset", config.DefaultEncoding, "The charset used for entry names (e.g. UTF-8, GBK)")
	rootCmd.PersistentFlags().BoolVar(&overwrite, "overwrite", config.DefaultOverwrite, "Replace existing archives and extracted files")
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Enable verbose logging")
}

var rootCmd = &cobra.Command{
	Use:   "zipper",
	Short: "zipper packs files and directories into zip archives and unpacks them",
	Long: `
The zipper command packs any number of files and directories into a single zip archive,
and extracts archives back to disk. Defaults are read from a zip.config file and the
ZIPPER_* environment, and can be overridden with flags.
`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		provider, err = config.NewProvider(configPath)
		if err != nil {
			return err
		}
		zipper = engine.New(effectiveSettings(cmd))
		log.Debugf("Using configuration from %q\n", provider.Path())
		return nil
	},
}

// effectiveSettings returns the provider settings with any explicitly set
// flags applied on top.
func effectiveSettings(cmd *cobra.Command) types.Settings {
	settings := provider.Settings()
	flags := cmd.Flags()
	if flags.Changed("buffer-size") {
		settings.BufferSize = bufferSize
	}
	if flags.Changed("level") {
		settings.Level = level
	}
	if flags.Changed("charset") {
		settings.Encoding = charset
	}
	if flags.Changed("overwrite") {
		settings.Overwrite = overwrite
	}
	return config.Normalize(settings)
}

// GetRootCommand returns the root zipper command
func GetRootCommand() *cobra.Command { return rootCmd }
