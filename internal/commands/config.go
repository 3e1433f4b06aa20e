package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/helena/scitutor/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show the current configuration, or change a setting with
'config set <key> <value>'.

Keys:
  theme       dark or light
  endpoint    tutor service URL
  timeout     request timeout in seconds
  clipboard   copy one-shot answers to the clipboard (true/false)
  verbose     debug-level log entries (true/false)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfig(args[0], args[1])
	},
}

func showConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	theme := cfg.Theme
	if theme == "" {
		theme = "(unset, resolved from terminal at startup)"
	}

	fmt.Printf("theme:     %s\n", theme)
	fmt.Printf("endpoint:  %s\n", cfg.Endpoint)
	fmt.Printf("timeout:   %ds\n", cfg.TimeoutSeconds)
	fmt.Printf("clipboard: %t\n", cfg.CopyToClipboard)
	fmt.Printf("verbose:   %t\n", cfg.Verbose)

	if path, err := config.GetConfigPath(); err == nil {
		fmt.Printf("\nconfig file: %s\n", path)
	}
	return nil
}

func setConfig(key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	switch key {
	case "theme":
		switch value {
		case config.ThemeDark, config.ThemeLight:
			cfg.Theme = value
		default:
			return fmt.Errorf("theme must be %q or %q", config.ThemeDark, config.ThemeLight)
		}

	case "endpoint":
		if value == "" {
			return fmt.Errorf("endpoint cannot be empty")
		}
		cfg.Endpoint = value

	case "timeout":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("timeout must be a positive number of seconds")
		}
		cfg.TimeoutSeconds = seconds

	case "clipboard":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("clipboard must be true or false")
		}
		cfg.CopyToClipboard = enabled

	case "verbose":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		cfg.Verbose = enabled

	default:
		return fmt.Errorf("unknown setting %q", key)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("%s set to %s\n", key, value)
	return nil
}

func init() {
	configCmd.AddCommand(configSetCmd)
}
