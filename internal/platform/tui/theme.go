package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/busjam/internal/core"
)

// Theme holds the lipgloss styles used by the game view and the menus.
type Theme struct {
	// Colors maps screen cell colors to terminal styles.
	Colors map[core.Color]lipgloss.Style

	// Menus
	Title       lipgloss.Style
	Item        lipgloss.Style
	ItemActive  lipgloss.Style
	Description lipgloss.Style
	Controls    lipgloss.Style
	Won         lipgloss.Style
	Lost        lipgloss.Style

	// Results table
	Border       lipgloss.Color
	HeaderBorder lipgloss.Color
	SelectedFg   lipgloss.Color
	SelectedBg   lipgloss.Color
	EmptyMessage lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// DefaultTheme returns the standard 16-color theme.
func DefaultTheme() Theme {
	return Theme{
		Colors: map[core.Color]lipgloss.Style{
			core.ColorDefault:       lipgloss.NewStyle(),
			core.ColorRed:           fg("1"),
			core.ColorGreen:         fg("2"),
			core.ColorYellow:        fg("3"),
			core.ColorBlue:          fg("4"),
			core.ColorMagenta:       fg("5"),
			core.ColorCyan:          fg("6"),
			core.ColorWhite:         fg("7"),
			core.ColorBrightRed:     fg("9"),
			core.ColorBrightGreen:   fg("10"),
			core.ColorBrightYellow:  fg("11"),
			core.ColorBrightBlue:    fg("12"),
			core.ColorBrightMagenta: fg("13"),
			core.ColorBrightCyan:    fg("14"),
			core.ColorBrightWhite:   fg("15"),
			core.ColorOrange:        fg("208"),
			core.ColorGray:          fg("245"),
		},

		Title:       fg("51").Bold(true),
		Item:        fg("252"),
		ItemActive:  fg("226").Bold(true),
		Description: fg("245"),
		Controls:    fg("241"),
		Won:         fg("46"),
		Lost:        fg("196"),

		Border:       lipgloss.Color("240"),
		HeaderBorder: lipgloss.Color("240"),
		SelectedFg:   lipgloss.Color("229"),
		SelectedBg:   lipgloss.Color("57"),
		EmptyMessage: fg("241").Italic(true).Padding(2, 4),
	}
}

// PastelTheme softens the customer and bus colors.
func PastelTheme() Theme {
	t := DefaultTheme()
	t.Colors = cloneColors(t.Colors)
	t.Colors[core.ColorRed] = fg("210")
	t.Colors[core.ColorBrightRed] = fg("217")
	t.Colors[core.ColorGreen] = fg("151")
	t.Colors[core.ColorBrightGreen] = fg("157")
	t.Colors[core.ColorBlue] = fg("111")
	t.Colors[core.ColorBrightBlue] = fg("117")
	t.Colors[core.ColorYellow] = fg("222")
	t.Colors[core.ColorBrightYellow] = fg("229")
	t.Colors[core.ColorMagenta] = fg("183")
	t.Colors[core.ColorBrightMagenta] = fg("219")
	t.Colors[core.ColorOrange] = fg("216")
	t.Title = fg("117").Bold(true)
	t.ItemActive = fg("229").Bold(true)
	return t
}

// MonochromeTheme drops hue entirely; customers are told apart by letter.
func MonochromeTheme() Theme {
	t := DefaultTheme()
	mono := make(map[core.Color]lipgloss.Style, len(t.Colors))
	for c := range t.Colors {
		mono[c] = fg("250")
	}
	for _, c := range []core.Color{
		core.ColorBrightRed, core.ColorBrightGreen, core.ColorBrightBlue,
		core.ColorBrightYellow, core.ColorBrightMagenta, core.ColorBrightCyan, core.ColorBrightWhite,
	} {
		mono[c] = fg("255").Bold(true)
	}
	mono[core.ColorGray] = fg("240")
	mono[core.ColorDefault] = lipgloss.NewStyle()
	t.Colors = mono
	t.Title = fg("255").Bold(true)
	t.ItemActive = fg("255").Bold(true).Underline(true)
	t.Won = fg("255")
	t.Lost = fg("245")
	t.SelectedFg = lipgloss.Color("0")
	t.SelectedBg = lipgloss.Color("250")
	return t
}

func cloneColors(src map[core.Color]lipgloss.Style) map[core.Color]lipgloss.Style {
	dst := make(map[core.Color]lipgloss.Style, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"pastel":  PastelTheme,
	"mono":    MonochromeTheme,
}

// ThemeByName looks up a theme preset. An empty name is the default theme.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		return DefaultTheme(), nil
	}
	mk, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	return mk(), nil
}

// ThemeNames lists the theme presets in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global theme, set once at startup.
var currentTheme = DefaultTheme()

// SetTheme replaces the global theme.
func SetTheme(t Theme) {
	currentTheme = t
}

// CurrentTheme returns the global theme.
func CurrentTheme() Theme {
	return currentTheme
}
