package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/keyreg/internal/presentation"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list [registry]",
	Short: "Print a registry's transformed contents",
	Long: `Print every record of a registry, transformed, in declaration order.
Without a registry name, prints the configured registry names.

Examples:
  # Names of all registries
  keyreg list

  # Full listing as JSON
  keyreg list errors

  # As YAML
  keyreg list errors --format yaml

  # Parse specific fields with jq
  keyreg list errors | jq '.not_found.message'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(listFormat)
		if err != nil {
			return err
		}

		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		if len(args) == 0 {
			return presentation.NewFormatter(cmd.OutOrStdout(), format).Format(catalog.Names())
		}

		reg, err := catalog.Get(args[0])
		if err != nil {
			return err
		}
		body, err := presentation.NewPublisher(reg, format).Render()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "", "output format: json or yaml (default: server.format)")
	rootCmd.AddCommand(listCmd)
}

// outputFormat resolves a --format flag, falling back to server.format.
func outputFormat(flag string) (presentation.Format, error) {
	if flag == "" {
		flag = cfg.Server.Format
	}
	return presentation.ParseFormat(flag)
}
