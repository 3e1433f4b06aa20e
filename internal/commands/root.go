// Package commands provides CLI commands for scitutor.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	endpointFlag string
	outputFlag   string
	fileFlag     string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scitutor [question]",
	Short: "Terminal client for the science tutor service",
	Long: `scitutor is a terminal chat client for a science tutor service.
It keeps the conversation on screen, sends the full history with every
question, and remembers your theme preference between sessions.

Examples:
  scitutor chat                         Start interactive chat
  scitutor config                       Show settings
  scitutor "Why is the sky blue?"       Send a single question
  scitutor -f question.md               Read question from file
  cat question.md | scitutor            Read question from stdin
  scitutor "Hello" -o answer.md         Save answer to file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("scitutor %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		// No input - show help
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Tutor service URL (overrides config)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save answer to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read question from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}
