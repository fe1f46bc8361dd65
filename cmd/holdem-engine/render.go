package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-engine/internal/card"
	"github.com/lox/holdem-engine/internal/snapshot"
)

// Styles reuse the teacher's tui/styles.go palette (HeaderStyle,
// HandInfoStyle, RedCardStyle/BlackCardStyle, SuccessStyle), applied here to
// a one-shot snapshot printout instead of a live bubbletea view.
var (
	tableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	handInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)
)

func renderCard(c card.Card) string {
	if c.Suit.IsRed() {
		return redCardStyle.Render(c.String())
	}
	return blackCardStyle.Render(c.String())
}

func renderCards(cards []card.Card) string {
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = renderCard(c)
	}
	return strings.Join(rendered, " ")
}

func renderSnapshot(snap *snapshot.Snapshot) string {
	ctx := snap.Context
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", handInfoStyle.Render(fmt.Sprintf("hand #%d — phase %s", ctx.HandNumber, ctx.CurrentPhase)))
	if len(ctx.CommunityCards) > 0 {
		fmt.Fprintf(&b, "board: %s\n", renderCards(ctx.CommunityCards))
	}
	fmt.Fprintf(&b, "pot: %d\n", ctx.PotTotal)

	for _, p := range ctx.OrderedPlayers() {
		fmt.Fprintf(&b, "  %-10s chips=%-6d bet=%-6d %s\n", p.ID, p.Chips, p.CurrentBet, p.Status)
	}

	for _, w := range ctx.WinnerInfo {
		fmt.Fprintf(&b, "%s\n", winnerStyle.Render(fmt.Sprintf("%s wins %d", w.PlayerID, w.Amount)))
	}

	return b.String()
}
