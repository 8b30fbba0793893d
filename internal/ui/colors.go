package ui

// Color functions return ANSI escape codes from the current theme.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code from the current theme.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// Paint wraps s in the given escape code and a reset. An empty code leaves s
// unchanged, so painted text stays clean under the no-color theme.
func Paint(code, s string) string {
	if code == "" {
		return s
	}
	return code + s + ColorReset()
}

// Colors adapts the current theme to the small color interface expected by
// the error handler.
type Colors struct{}

// Yellow returns the warning color.
func (Colors) Yellow() string { return ColorYellow() }

// Reset returns the reset code.
func (Colors) Reset() string { return ColorReset() }
