package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rectshot/rectshot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rectshot configuration",
	Long:  `View and manage rectshot configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Example: `  # Show configuration as YAML (default)
  rectshot config show

  # Show configuration as JSON
  rectshot config show --format json`,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Example: `  # Change the editor server port
  rectshot config set server_port 9090

  # Commit selections on mouse release
  rectshot config set release_to_capture true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

var formatFlag string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	configShowCmd.Flags().StringVarP(&formatFlag, "format", "f", "yaml", "output format (yaml or json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	settings := configMgr.Get()

	switch formatFlag {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(settings)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(settings)
	default:
		return fmt.Errorf("unsupported format: %s (use 'yaml' or 'json')", formatFlag)
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var setErr error
	configMgr.Update(func(s *config.Settings) {
		setErr = setKey(s, key, value)
	})
	if setErr != nil {
		return setErr
	}

	if err := configMgr.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Configuration updated: %s = %s\n", key, value)
	return nil
}

func setKey(s *config.Settings, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean: %s (use: true or false)", value)
		}
		return b, nil
	}

	switch key {
	case "server_port":
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port number: %s", value)
		}
		s.ServerPort = port
	case "log_level":
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[value] {
			return fmt.Errorf("invalid log level: %s (use: debug, info, warn, error)", value)
		}
		s.LogLevel = value
	case "delay_ms":
		delay, err := strconv.Atoi(value)
		if err != nil || delay < 0 {
			return fmt.Errorf("invalid delay: %s", value)
		}
		s.DelayMS = delay
	case "release_to_capture":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.ReleaseToCapture = b
	case "show_magnifier":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.ShowMagnifier = b
	case "light_mask":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.LightMask = b
	case "remember_region":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.RememberRegion = b
	case "copy_to_clipboard":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.CopyToClipboard = b
	case "output_dir":
		s.OutputDir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(configMgr.GetConfigPath())
	return nil
}
