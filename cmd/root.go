package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/keyreg/internal/app"
	"github.com/zjrosen/keyreg/internal/config"
	"github.com/zjrosen/keyreg/internal/log"
	"github.com/zjrosen/keyreg/internal/paths"
	"github.com/zjrosen/keyreg/internal/registry"
)

// defaultConfigPath is where init writes and where lookup starts.
const defaultConfigPath = ".keyreg/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	cfgErr  error

	closeLog func()
)

var rootCmd = &cobra.Command{
	Use:   "keyreg",
	Short: "Serve named data sets with strict key lookup",
	Long: `keyreg loads declared data sets (error responses, messages, fixtures)
from YAML or JSON files, serves each record by its key, and publishes the
full transformed contents for introspection.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
			closeLog = nil
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .keyreg/config.yaml, then ~/.config/keyreg/config.yaml)")
}

func initConfig() {
	cfg, cfgErr = loadConfig(viper.GetViper(), cfgFile)
}

// loadConfig reads configuration into v and decodes it. A missing config file
// is not an error unless path names it explicitly.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	defaults := config.Defaults()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.base_path", defaults.Server.BasePath)
	v.SetDefault("server.format", defaults.Server.Format)
	v.SetDefault("watch.enabled", defaults.Watch.Enabled)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	// KEYREG_SERVER_ADDR overrides server.addr
	v.SetEnvPrefix("KEYREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Config lookup order:
		// 1. .keyreg/config.yaml (current directory)
		// 2. ~/.config/keyreg/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			v.SetConfigFile(defaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "keyreg"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
		// No config file anywhere - run on defaults
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// setupLogging directs the logger per log.file and log.level. Logs go to
// stderr so command output on stdout stays machine-readable.
func setupLogging(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		// Commands that need config report cfgErr themselves
		log.InitWriter(cmd.ErrOrStderr())
		return nil
	}
	if cfg.Log.File != "" {
		cleanup, err := log.Init(cfg.Log.File)
		if err != nil {
			return err
		}
		closeLog = cleanup
	} else {
		log.InitWriter(cmd.ErrOrStderr())
	}
	log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	return nil
}

// openCatalog builds the configured registries. Relative source paths resolve
// against the config file's directory.
func openCatalog(opts ...registry.Option) (*app.Catalog, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if len(cfg.Registries) == 0 {
		return nil, fmt.Errorf("no registries configured\nRun 'keyreg init' to create a starter config")
	}
	return app.New(cfg, paths.ConfigDir(viper.ConfigFileUsed()), opts...)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
