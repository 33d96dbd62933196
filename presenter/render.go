package presenter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tbxark/offerwizard/offer"
)

var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorError   = lipgloss.Color("#f7768e")
	colorMuted   = lipgloss.Color("#565f89")
	colorFgDim   = lipgloss.Color("#a9b1d6")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			Width(72)

	selectedCardStyle = cardStyle.
				BorderForeground(colorPrimary)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(colorFgDim)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	standBadgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(colorPrimary).
			Foreground(lipgloss.Color("#1a1b26"))

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// RenderOption draws one offer card for the selection screen.
func RenderOption(index int, o offer.Option, selected bool) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%d. %s", index+1, o.Title)),
		descriptionStyle.Render(o.Description),
	}
	if o.Stand != "" {
		lines = append(lines, standBadgeStyle.Render("Stand "+o.Stand))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func RenderOptions(options []offer.Option, selected int) string {
	cards := make([]string, 0, len(options))
	for i, o := range options {
		cards = append(cards, RenderOption(i, o, i == selected))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// RenderRedemption draws the redemption screen for a collected offer.
func RenderRedemption(o offer.Option) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(o.Title))
	sb.WriteString("\n")
	if o.Stand != "" {
		sb.WriteString(standBadgeStyle.Render("Stand " + o.Stand))
		sb.WriteString("\n")
	}
	sb.WriteString(descriptionStyle.Render(o.Description))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("How to redeem"))
	for i, step := range o.RedemptionSteps {
		sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, step))
	}
	return cardStyle.Render(sb.String())
}

func RenderNotification(n Notification) string {
	style := successStyle
	if n.Level == LevelError {
		style = errorStyle
	}
	if n.Message == "" {
		return style.Render(n.Title)
	}
	return style.Render(n.Title) + " " + n.Message
}
