package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/keyreg/internal/presentation"
)

var getFormat string

var getCmd = &cobra.Command{
	Use:   "get <registry> <key>",
	Short: "Print one transformed record",
	Long: `Print the record registered under key, after the registry's transform.
Exits non-zero when the key is not declared.

Example:
  keyreg get errors not_authorized`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(getFormat)
		if err != nil {
			return err
		}

		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		defer catalog.Close()

		reg, err := catalog.Get(args[0])
		if err != nil {
			return err
		}
		rec, err := reg.Lookup(args[1])
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout(), format).Format(rec)
	},
}

func init() {
	getCmd.Flags().StringVarP(&getFormat, "format", "f", "", "output format: json or yaml (default: server.format)")
	rootCmd.AddCommand(getCmd)
}
