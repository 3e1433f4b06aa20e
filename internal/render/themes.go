// Package render provides TUI theme definitions for the terminal interface.
package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name string

	// Base colors
	Surface lipgloss.Color
	Border  lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// The theme preference is a boolean: one dark palette, one light palette.
var (
	// DarkTheme is used when dark mode is active
	DarkTheme = TUITheme{
		Name: "dark",

		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// LightTheme is used when dark mode is off
	LightTheme = TUITheme{
		Name: "light",

		Surface: lipgloss.Color("#e1e2e7"),
		Border:  lipgloss.Color("#a8aecb"),

		Primary:   lipgloss.Color("#2e7de9"),
		Secondary: lipgloss.Color("#587539"),
		Accent:    lipgloss.Color("#9854f1"),
		Error:     lipgloss.Color("#f52a65"),

		Text:     lipgloss.Color("#3760bf"),
		TextDim:  lipgloss.Color("#848cb5"),
		TextMute: lipgloss.Color("#a8aecb"),
	}
)

var (
	themeMu  sync.RWMutex
	darkMode bool
	current  = LightTheme
)

// SetDarkMode activates the dark or light theme
func SetDarkMode(dark bool) {
	themeMu.Lock()
	defer themeMu.Unlock()
	darkMode = dark
	if dark {
		current = DarkTheme
	} else {
		current = LightTheme
	}
}

// IsDarkMode reports whether the dark theme is active
func IsDarkMode() bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return darkMode
}

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return current
}

// AmbientDark reports the host terminal's background preference. Used
// only when no theme has been persisted yet.
func AmbientDark() bool {
	return lipgloss.HasDarkBackground()
}
