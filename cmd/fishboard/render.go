package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-fishboard/components/tracker"
)

type styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Rank    lipgloss.Style
	Name    lipgloss.Style
	Number  lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
}

func defaultStyles() styles {
	primary := lipgloss.Color("39")
	accent := lipgloss.Color("214")
	muted := lipgloss.Color("240")

	return styles{
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(muted),
		Rank: lipgloss.NewStyle().
			Foreground(muted).
			Width(5),
		Name: lipgloss.NewStyle().
			Width(24),
		Number: lipgloss.NewStyle().
			Foreground(accent).
			Width(12).
			Align(lipgloss.Right),
		Label: lipgloss.NewStyle().
			Width(16).
			PaddingLeft(2),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")),
	}
}

func renderLeaderboard(w io.Writer, st styles, ranks []tracker.WeightRank) {
	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("Heaviest Fish (Top %d)", len(ranks))))
	if len(ranks) == 0 {
		fmt.Fprintln(w, st.Muted.Render("No weigh-ins recorded yet."))
		return
	}
	fmt.Fprintln(w, st.Header.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		st.Rank.Render("#"), st.Name.Render("Fish"), st.Number.Render("Max lbs"))))
	for i, rank := range ranks {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			st.Rank.Render(strconv.Itoa(i+1)),
			st.Name.Render(rank.Name),
			st.Number.Render(formatWeight(rank.Weight)),
		))
	}
}

func renderDirectory(w io.Writer, st styles, cards []tracker.FishSummary) {
	fmt.Fprintln(w, st.Title.Render("Meet the Fish"))
	if len(cards) == 0 {
		fmt.Fprintln(w, st.Muted.Render("No fish have been recorded yet."))
		return
	}
	fmt.Fprintln(w, st.Header.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		st.Rank.Render("ID"), st.Name.Render("Name"), st.Number.Render("Max lbs"),
		st.Number.Render("Weigh-Ins"), st.Label.Render("Bait"), st.Label.Render("Location"))))
	for _, card := range cards {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			st.Rank.Render(strconv.Itoa(card.ID)),
			st.Name.Render(card.Name),
			st.Number.Render(formatWeight(card.MaxWeight)),
			st.Number.Render(strconv.Itoa(card.TotalWeighIns)),
			st.Label.Render(orDash(card.FavoriteBait)),
			st.Label.Render(orDash(card.FavoriteLocation)),
		))
	}
}

func renderProfile(w io.Writer, st styles, view tracker.ProfileView) {
	fmt.Fprintln(w, st.Title.Render(view.Summary.Name))
	notes := view.Summary.Notes
	if notes == "" {
		notes = "No notes yet."
	}
	fmt.Fprintln(w, st.Muted.Render(notes))
	fmt.Fprintln(w)
	if len(view.WeighIns) == 0 {
		fmt.Fprintln(w, st.Muted.Render("No weigh-ins recorded yet."))
		return
	}
	for _, card := range view.WeighIns {
		parts := []string{card.Date, card.Weight + " lbs"}
		if card.Length != "" {
			parts = append(parts, card.Length+" in long")
		}
		if card.Girth != "" {
			parts = append(parts, card.Girth+" in girth")
		}
		if card.Location != "" {
			parts = append(parts, "at "+card.Location)
		}
		if card.Bait != "" {
			parts = append(parts, "on "+card.Bait)
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
}

func renderMessage(w io.Writer, st styles, msg string) {
	if msg == "" {
		msg = "Done."
	}
	fmt.Fprintln(w, st.Success.Render(msg))
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
