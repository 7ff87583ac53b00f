package ui

// Color helpers read the active theme on every call so a theme switch
// in the REPL takes effect immediately.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorRed is used for errors.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen is used for successful results.
func ColorGreen() string { return GetCurrentTheme().Success }

func ColorYellow() string  { return GetCurrentTheme().Warning }
func ColorBlue() string    { return GetCurrentTheme().Primary }
func ColorMagenta() string { return GetCurrentTheme().Info }
func ColorCyan() string    { return GetCurrentTheme().Primary }
func ColorGrey() string    { return GetCurrentTheme().Secondary }

// Paint wraps s in the escape code returned by color and a reset.
// With the no-color theme it returns s unchanged.
func Paint(color func() string, s string) string {
	c := color()
	if c == "" {
		return s
	}
	return c + s + ColorReset()
}
