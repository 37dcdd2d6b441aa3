// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	UserBadge   lipgloss.Style

	// ==========================================================================
	// AUTH SCREEN STYLES
	// ==========================================================================

	AuthBox      lipgloss.Style
	AuthTitle    lipgloss.Style
	AuthLabel    lipgloss.Style
	AuthError    lipgloss.Style
	AuthSwitch   lipgloss.Style
	ButtonActive lipgloss.Style
	Button       lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarItem      lipgloss.Style
	SidebarSelected  lipgloss.Style
	SidebarEmpty     lipgloss.Style
	SidebarNewButton lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserMessage    lipgloss.Style
	AssistantMsg   lipgloss.Style
	PendingMessage lipgloss.Style
	EmptyThread    lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	Spinner        lipgloss.Style
	TypingText     lipgloss.Style
	StatusBar      lipgloss.Style
	ErrorBanner    lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.UserBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(Surface).
		Background(Purple).
		Padding(0, 1)

	// Auth screen
	t.AuthBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 4)

	t.AuthTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Align(lipgloss.Center)

	t.AuthLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.AuthError = lipgloss.NewStyle().
		Foreground(Rose)

	t.AuthSwitch = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.ButtonActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Surface).
		Background(Purple).
		Padding(0, 2)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(1)

	t.SidebarSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Surface).
		Background(Purple).
		PaddingLeft(1)

	t.SidebarEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		PaddingLeft(1)

	t.SidebarNewButton = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true).
		PaddingLeft(1)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.UserMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.AssistantMsg = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.PendingMessage = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.EmptyThread = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Align(lipgloss.Center)

	// Input and status
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Amber)

	t.TypingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ErrorBanner = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}
