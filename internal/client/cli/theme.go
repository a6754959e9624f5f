package cli

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "13"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "14"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "245", Dark: "241"}
	ColorCaption = lipgloss.AdaptiveColor{Light: "240", Dark: "250"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}

	StyleSuccess  lipgloss.Style
	StyleError    lipgloss.Style
	StyleInfo     lipgloss.Style
	StyleMuted    lipgloss.Style
	StyleTitle    lipgloss.Style
	StyleCard     lipgloss.Style
	StyleCaption  lipgloss.Style
	StyleLightbox lipgloss.Style

	IconSuccess = "✔"
	IconError   = "✘"
	IconInfo    = "ℹ"
)

func init() {
	SetTheme(ThemeAuto)
}

// SetTheme applies "auto", "dark" or "light" and re-derives every style.
func SetTheme(theme string) {
	switch theme {
	case ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	default:
		// lipgloss detects the background
	}

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleTitle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleCaption = lipgloss.NewStyle().Foreground(ColorCaption).Bold(true)
	StyleCard = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	StyleLightbox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
}

func formatSuccess(msg string) string { return StyleSuccess.Render(IconSuccess + " " + msg) }
func formatError(msg string) string   { return StyleError.Render(IconError + " " + msg) }
func formatInfo(msg string) string    { return StyleInfo.Render(IconInfo + " " + msg) }

// Header holds the display mode shown in the prompt.
type Header struct {
	mu   sync.Mutex
	mode string
}

func NewHeader(mode string) (*Header, error) {
	h := &Header{}
	if err := h.Set(mode); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Header) Mode() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

func (h *Header) Set(mode string) error {
	switch mode {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unknown theme %q (want auto, light or dark)", mode)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.mode = mode
	SetTheme(mode)
	return nil
}

// Toggle flips between light and dark. From "auto" it switches away from
// the detected background.
func (h *Header) Toggle() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	dark := h.mode == ThemeDark || (h.mode == ThemeAuto && lipgloss.HasDarkBackground())
	if dark {
		h.mode = ThemeLight
	} else {
		h.mode = ThemeDark
	}
	SetTheme(h.mode)
	return h.mode
}
