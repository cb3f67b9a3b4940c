package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/codementor/internal/client"
	"github.com/felixgeelhaar/codementor/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

const defaultServer = "http://127.0.0.1:8000"

var ui = newUI()

var rootCmd = &cobra.Command{
	Use:   "codementor",
	Short: "CodeMentor - code review and learning paths from the terminal",
	Long: `codementor talks to a running codementord server. It submits code for
analysis, browses past sessions and walks a learning path topic by topic.

Configuration is read from ~/.codementor/cli.yaml and CODEMENTOR_* variables:
  server     server base URL (default ` + defaultServer + `)
  user_id    learner id sent as X-User-ID
  amqp_url   RabbitMQ URL used by 'watch'`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.codementor/cli.yaml)")
	rootCmd.PersistentFlags().String("server", "", "Server base URL")
	rootCmd.PersistentFlags().String("user", "", "Learner id (overrides user_id)")
	bindFlags()

	rootCmd.AddCommand(versionCmd)
}

func bindFlags() {
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("user_id", rootCmd.PersistentFlags().Lookup("user"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := config.Dir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigName("cli")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CODEMENTOR")
	viper.AutomaticEnv()

	viper.SetDefault("server", defaultServer)
	viper.SetDefault("user_id", "")
	viper.SetDefault("amqp_url", "")

	// The file is optional
	_ = viper.ReadInConfig()
}

// configuredUser parses user_id; uuid.Nil when unset
func configuredUser() (uuid.UUID, error) {
	raw := viper.GetString("user_id")
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user_id %q is not a UUID", raw)
	}
	return id, nil
}

// newClient returns an API client for the configured learner
func newClient(requireUser bool) (*client.Client, error) {
	id, err := configuredUser()
	if err != nil {
		return nil, err
	}
	if requireUser && id == uuid.Nil {
		return nil, fmt.Errorf("no learner configured; run 'codementor user create --save' or set CODEMENTOR_USER_ID")
	}
	return client.New(viper.GetString("server"), client.WithUser(id)), nil
}

// saveConfig writes the current settings to the CLI config file
func saveConfig() (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		dir, err := config.EnsureDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "cli.yaml")
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(ui.Out, "codementor %s\n", Version)
	},
}
