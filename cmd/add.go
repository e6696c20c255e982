package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/keyreg/internal/config"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/transform"
)

var (
	addFormat string
	addStrip  []string
	addRename []string
)

var addCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Declare a registry in the config file",
	Long: `Append a registry declaration to the config file. Comments and the
other sections are preserved.

Examples:
  keyreg add messages data/messages.json
  keyreg add errors data/errors.yaml --strip status
  keyreg add legacy data/legacy.yaml --rename msg=message`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var rename []transform.RenameRule
		for _, pair := range addRename {
			from, to, ok := strings.Cut(pair, "=")
			if !ok || from == "" || to == "" {
				return fmt.Errorf("invalid --rename %q (want from=to)", pair)
			}
			rename = append(rename, transform.RenameRule{From: from, To: to})
		}

		reg := config.RegistryConfig{
			Name:   args[0],
			Source: source.Descriptor{Format: addFormat, Path: args[1]},
			Transform: transform.Spec{
				Strip:  addStrip,
				Rename: rename,
			},
		}

		path := viper.ConfigFileUsed()
		if path == "" {
			path = defaultConfigPath
		}
		if err := config.AddRegistry(path, reg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added registry %s to %s\n", reg.Name, path)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addFormat, "format", "", "source format: yaml or json (default: from extension)")
	addCmd.Flags().StringSliceVar(&addStrip, "strip", nil, "fields to drop from every record")
	addCmd.Flags().StringArrayVar(&addRename, "rename", nil, "rename a field, from=to (repeatable)")
	rootCmd.AddCommand(addCmd)
}
