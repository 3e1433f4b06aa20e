package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helena/scitutor/internal/config"
	"github.com/helena/scitutor/internal/logger"
	"github.com/helena/scitutor/internal/render"
	"github.com/helena/scitutor/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the science tutor.

The chat keeps the full conversation on screen and sends it with every
question. Type 'exit', 'quit', or press Ctrl+C to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}

	if _, err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if logPath, err := config.GetLogPath(); err == nil {
		if err := logger.Init(logPath, cfg.Verbose); err == nil {
			defer logger.Close()
		}
	}

	// Resolve the theme: stored preference wins, otherwise the terminal
	// background decides and the result is persisted for next time.
	dark, updated := config.ResolveTheme(&cfg, render.AmbientDark())
	render.SetDarkMode(dark)
	tui.UpdateTheme()
	if updated {
		if err := config.SaveConfig(cfg); err != nil {
			logger.Warn().Err(err).Msg("failed to persist resolved theme")
		}
	}

	client, err := newTutorClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	logger.Info().Str("endpoint", client.Endpoint()).Msg("starting chat session")

	return tui.RunChat(client, cfg)
}
