package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rectshot/rectshot/internal/config"
	"github.com/rectshot/rectshot/internal/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "rectshot",
		Short: "rectshot - Rectangular region screenshots with a browser-based editor",
		Long: `rectshot captures all connected screens into one canvas and opens a
browser-based editor to select the rectangular region to keep.

Features:
  • Multi-screen capture with mixed per-screen scale factors
  • Drag, resize and keyboard-nudge the selection
  • Live preview stream with drag handles and magnifier
  • Remembered selection region between runs
  • PNG export with optional clipboard copy`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rectshot/config.yaml)")
	rootCmd.PersistentFlags().Int("port", 0, "editor server port (default is 8089)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("server_port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// loadConfig builds the settings manager and applies flag overrides.
func loadConfig() (*config.Manager, error) {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if viper.IsSet("server_port") {
		if port := viper.GetInt("server_port"); port > 0 {
			configMgr.SetPort(port)
		}
	}
	if viper.IsSet("log_level") {
		if level := viper.GetString("log_level"); level != "" {
			configMgr.SetLogLevel(level)
		}
	}

	logger.Init(configMgr.Get().LogLevel, true)
	return configMgr, nil
}
