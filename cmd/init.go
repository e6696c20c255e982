package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/keyreg/internal/config"
	"github.com/zjrosen/keyreg/internal/templates"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter config and sample data set",
	Long: `Write config.yaml and data/errors.yaml into dir (default: .keyreg).
An existing config is kept unless --force is given; existing data files are
never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Dir(defaultConfigPath)
		if len(args) == 1 {
			dir = args[0]
		}
		configPath := filepath.Join(dir, filepath.Base(defaultConfigPath))

		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}

		if err := config.WriteDefaultConfig(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)

		written, err := templates.WriteSampleData(dir)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
