package theme

import "fmt"

// Brightness describes whether a theme is light or dark.
type Brightness int

const (
	// BrightnessLight is a light theme (dark text on light background).
	BrightnessLight Brightness = iota
	// BrightnessDark is a dark theme (light text on dark background).
	BrightnessDark
)

func (b Brightness) String() string {
	switch b {
	case BrightnessLight:
		return "light"
	case BrightnessDark:
		return "dark"
	default:
		return fmt.Sprintf("Brightness(%d)", int(b))
	}
}

// Mode selects how the effective brightness is chosen.
type Mode int

const (
	// ModeSystem follows the platform brightness.
	ModeSystem Mode = iota
	// ModeLight forces the light variant.
	ModeLight
	// ModeDark forces the dark variant.
	ModeDark
)

func (m Mode) String() string {
	switch m {
	case ModeSystem:
		return "system"
	case ModeLight:
		return "light"
	case ModeDark:
		return "dark"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "system":
		return ModeSystem, nil
	case "light":
		return ModeLight, nil
	case "dark":
		return ModeDark, nil
	}
	return ModeSystem, fmt.Errorf("unknown theme mode %q (want system, light or dark)", s)
}

// flags returns the token flag for m: "" for system, "0" light, "1" dark.
func (m Mode) flags() string {
	switch m {
	case ModeLight:
		return "0"
	case ModeDark:
		return "1"
	default:
		return ""
	}
}

func modeFromFlags(flags string) (Mode, bool) {
	switch flags {
	case "":
		return ModeSystem, true
	case "0":
		return ModeLight, true
	case "1":
		return ModeDark, true
	}
	return ModeSystem, false
}

// Resolve returns the effective brightness of m given the system brightness.
func (m Mode) Resolve(system Brightness) Brightness {
	switch m {
	case ModeLight:
		return BrightnessLight
	case ModeDark:
		return BrightnessDark
	default:
		return system
	}
}
