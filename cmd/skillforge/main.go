package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/logger"
	"github.com/Hackerdomarketing/claude-code-skills/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// errReported signals a failure whose details were already printed
var errReported = errors.New("failure already reported")

var configFile string

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("heuristics_profile", "")
	viper.SetDefault("quiet", false)
}

// loadConfig reads the config file. A missing default config file is not
// an error; a missing explicit one is.
func loadConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".skillforge"))
	}
	viper.AddConfigPath(".skillforge")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "skillforge",
	Short: "Toolset for authoring skill bundles",
	Long: `Skillforge creates, analyzes, validates and packages skill bundles: directories
holding a SKILL.md descriptor with YAML frontmatter plus optional scripts/,
references/ and assets/ subdirectories.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if err := logger.Configure(viper.GetString("log_level"), viper.GetString("log_format")); err != nil {
			return err
		}
		presenter.SetQuiet(viper.GetBool("quiet"))

		if used := viper.ConfigFileUsed(); used != "" {
			logger.G(cmd.Context()).WithField("config", used).Debug("loaded config file")
		}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			logger.G(cmd.Context()).WithField("flag", f.Name).
				WithField("value", f.Value.String()).
				Debug("flag set")
		})
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func main() {
	// Add global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.skillforge/config.yaml or ./.skillforge/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")
	rootCmd.PersistentFlags().String("heuristics-profile", "", "Named heuristics profile from the config file")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("heuristics_profile", rootCmd.PersistentFlags().Lookup("heuristics-profile"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	// Execute
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			presenter.Error(err, "")
		}
		os.Exit(1)
	}
}
