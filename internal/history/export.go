// Package history exports the current session transcript to disk.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/helena/scitutor/internal/models"
)

// TranscriptMarkdown renders a transcript as a markdown document
func TranscriptMarkdown(msgs []models.Message) string {
	var sb strings.Builder

	sb.WriteString("# Science Tutor Session\n\n")
	sb.WriteString("**Exported:** ")
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(msgs)))

	for i, msg := range msgs {
		role := "You"
		if msg.Role == models.RoleModel {
			role = "Tutor"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportTranscript writes the transcript to a timestamped markdown file
// in dir and returns the file path.
func ExportTranscript(dir string, msgs []models.Message) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("chat-%s.md", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, []byte(TranscriptMarkdown(msgs)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}

	return path, nil
}
