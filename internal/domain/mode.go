package domain

// Mode is the display mode preference.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParseMode accepts only the exact stored values "light" and "dark".
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeLight:
		return ModeLight, true
	case ModeDark:
		return ModeDark, true
	default:
		return "", false
	}
}

// Toggle returns the opposite mode. Anything that is not light toggles to light.
func Toggle(m Mode) Mode {
	if m == ModeLight {
		return ModeDark
	}
	return ModeLight
}

func (m Mode) IsDark() bool {
	return m == ModeDark
}

func (m Mode) String() string {
	return string(m)
}
