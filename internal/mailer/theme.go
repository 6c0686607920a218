package mailer

// Theme selects the email color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeSessionKey is the session key holding the caller's theme choice.
const ThemeSessionKey = "theme"

// ResolveTheme maps a stored session preference to a Theme. Anything other
// than an explicit "dark" or "light" (including "system", the empty string
// and an unavailable session) resolves to light.
func ResolveTheme(stored string) Theme {
	switch stored {
	case "dark":
		return ThemeDark
	case "light":
		return ThemeLight
	default:
		return ThemeLight
	}
}
