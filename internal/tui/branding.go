package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/pulse/internal/config"
)

const AppName = "pulse"

// LogoLines is the block logo shown in the banner and on the empty feed.
var LogoLines = []string{
	"█▀▀█ █  █ █    █▀▀▀ █▀▀▀",
	"█▄▄█ █  █ █    ▀▀▀█ █▀▀ ",
	"█     ▀▀  ▀▀▀▀ ▀▀▀▀ ▀▀▀▀",
}

const CompactLogo = `pulse ›`

// BannerColors run from the primary blue into the accent mint.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#2563EB"),
	lipgloss.Color("#3B82F6"),
	lipgloss.Color("#4ECDC4"),
	lipgloss.Color("#95E1D3"),
}

var (
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	AccentColor    lipgloss.Color

	BackgroundColor lipgloss.Color
	SurfaceColor    lipgloss.Color
	TextColor       lipgloss.Color
	MutedColor      lipgloss.Color

	ErrorColor   lipgloss.Color
	SuccessColor lipgloss.Color
	WarnColor    = lipgloss.Color("#FBBF24")
)

var (
	LogoStyle           lipgloss.Style
	TitleStyle          lipgloss.Style
	HeaderStyle         lipgloss.Style
	CategoryStyle       lipgloss.Style
	ActiveCategoryStyle lipgloss.Style
	SourceStyle         lipgloss.Style
	TimeStyle           lipgloss.Style
	HelpStyle           lipgloss.Style
	SeparatorStyle      lipgloss.Style
	ErrorMessageStyle   lipgloss.Style

	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

func init() {
	ApplyTheme(config.Default().UI.Colors)
}

// ApplyTheme sets the palette from the configured colors and rebuilds every
// style derived from it. Empty entries keep their current value.
func ApplyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&BackgroundColor, c.Background)
	set(&SurfaceColor, c.Surface)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)

	LogoStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Bold(true).
		Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)

	CategoryStyle = lipgloss.NewStyle().Foreground(MutedColor).Padding(0, 1)

	ActiveCategoryStyle = lipgloss.NewStyle().
		Foreground(BackgroundColor).
		Background(PrimaryColor).
		Bold(true).
		Padding(0, 1)

	SourceStyle = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
	TimeStyle = lipgloss.NewStyle().Foreground(MutedColor).Faint(true)
	HelpStyle = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
	SeparatorStyle = lipgloss.NewStyle().Foreground(MutedColor)
	ErrorMessageStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)

	StatusInfoStyle = lipgloss.NewStyle().Foreground(MutedColor)
	StatusSuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	StatusWarnStyle = lipgloss.NewStyle().Foreground(WarnColor)
	StatusErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
}

// GetCompactBanner renders the logo above a muted message.
func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// BannerString is the startup banner with an optional version tagline.
func BannerString(version string) string {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	tagline := "    Daily headlines in your terminal"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline += " " + version
	}
	lines = append(lines, tagline)

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		MarginTop(1)

	banner := border.Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))
	separator := lipgloss.NewStyle().Foreground(AccentColor).Render("◆ ◇ ◆ ◇ ◆")

	centered := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left,
		centered.Render(banner),
		centered.MarginBottom(1).Render(separator),
	)
}

func ShowBanner(version string) {
	fmt.Println(BannerString(version))
}
