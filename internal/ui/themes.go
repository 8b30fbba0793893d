// Package ui provides theme and color support for the combicalc command line
// and usage output. It defines color schemes and exposes them as ANSI escape
// codes, so that the presentation packages share one source of styling.
package ui

import (
	"os"
	"strings"
	"sync"
)

// ThemeEnvVar selects a theme by name when colors are enabled.
const ThemeEnvVar = "COMBICALC_THEME"

// Theme defines a color scheme for UI output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary colors section headings and counts.
	Primary string
	// Secondary colors ranks, environment hints and other less prominent values.
	Secondary string
	// Success colors combinations and matching results.
	Success string
	// Warning colors timeouts and empty worker ranges.
	Warning string
	// Error colors failures and counter mismatches.
	Error string
	// Info colors worker indices.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;141m", // Purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // Dark blue
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;54m",  // Dark purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set, TERM is "dumb" or -no-color is given.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// ThemeByName looks a theme up by its name, ignoring case.
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used by tests to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name. Unknown names select the dark
// theme.
func SetTheme(name string) {
	t, ok := ThemeByName(name)
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme initializes the theme from the noColor flag and the environment.
// Colors are disabled by noColor, by a NO_COLOR variable of any value
// (https://no-color.org/) and by TERM=dumb. Otherwise COMBICALC_THEME picks
// the theme, defaulting to dark.
//
// Parameters:
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(noColor bool) {
	t := DarkTheme
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	switch {
	case noColor, noColorEnv, os.Getenv("TERM") == "dumb":
		t = NoColorTheme
	default:
		if named, ok := ThemeByName(os.Getenv(ThemeEnvVar)); ok {
			t = named
		}
	}
	SetCurrentTheme(t)
}
