package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/tinyzimmer/zipper/pkg/config"
	"github.com/tinyzimmer/zipper/pkg/log"
)

func init() {
	configSetCmd.ValidArgsFunction = completeFirstArg(config.Keys)

	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change the default settings",
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the settings in effect, after applying the environment and flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(zipper.Settings())
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n", provider.Path())
		fmt.Print(string(out))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist a default setting to the configuration file",
	Long: fmt.Sprintf(`
Stores a default setting in the configuration file. Values are normalized before they
are written, so an out of range buffer size or level is stored as the value that
would be used.

Valid keys are: %v
`, config.Keys),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := provider.Set(args[0], args[1]); err != nil {
			return err
		}
		log.Infof("Updated %s in %q\n", args[0], provider.Path())
		return nil
	},
}
