package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/cantinho/internal/calendar"
	"github.com/sadopc/cantinho/internal/garden"
	"github.com/sadopc/cantinho/internal/plant"
)

// dailyWatering is the number of waterings of one plant on one day.
type dailyWatering struct {
	Day   time.Time
	Plant string
	Color lipgloss.Color
	Count int
}

type historyModel struct {
	garden *garden.Garden
	width  int
	height int

	now     time.Time
	rows    []dailyWatering
	streak  int
	offset  int // 7-day blocks back from today (0 = current)
	visited int

	chart barchart.Model
}

func newHistoryModel(g *garden.Garden) historyModel {
	return historyModel{
		garden: g,
		chart:  barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
	h.buildChart()
}

type historyDataMsg struct {
	now     time.Time
	rows    []dailyWatering
	streak  int
	visited int
}

func (h historyModel) refresh() tea.Cmd {
	offset := h.offset
	return func() tea.Msg {
		now := h.garden.Now()
		plants := h.garden.Plants.List()
		from, to := dateRange(now, offset)
		return historyDataMsg{
			now:     now,
			rows:    summarize(plants, from, to),
			streak:  plant.WateringStreak(plants, now),
			visited: h.garden.Visits.Count(),
		}
	}
}

// dateRange returns the half-open seven-day window ending offset weeks ago.
func dateRange(now time.Time, offset int) (time.Time, time.Time) {
	end := calendar.Day(now, now.Location()).AddDate(0, 0, 1-7*offset)
	return end.AddDate(0, 0, -7), end
}

// summarize groups the waterings in [from, to) by day and plant. Plants keep
// a stable color by their position in the list.
func summarize(plants []plant.Plant, from, to time.Time) []dailyWatering {
	loc := from.Location()
	type k struct {
		day string
		idx int
	}
	counts := make(map[k]int)
	for i, p := range plants {
		for _, w := range p.WateringHistory {
			d := calendar.Day(w.At, loc)
			if d.Before(from) || !d.Before(to) {
				continue
			}
			counts[k{calendar.Key(d, loc), i}]++
		}
	}

	out := make([]dailyWatering, 0, len(counts))
	for c, n := range counts {
		day, _ := calendar.ParseKey(c.day, loc)
		out = append(out, dailyWatering{
			Day:   day,
			Plant: plants[c.idx].Name,
			Color: plantColors[c.idx%len(plantColors)],
			Count: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].Plant < out[j].Plant
	})
	return out
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.now = msg.now
		h.rows = msg.rows
		h.streak = msg.streak
		h.visited = msg.visited
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := max(20, h.width-8)
	chartHeight := 10
	if h.height > 30 {
		chartHeight = 14
	}

	h.chart = barchart.New(chartWidth, chartHeight)
	if h.now.IsZero() {
		return
	}

	from, to := dateRange(h.now, h.offset)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		var values []barchart.BarValue
		for _, r := range h.rows {
			if calendar.SameDay(r.Day, d) {
				values = append(values, barchart.BarValue{
					Name:  r.Plant,
					Value: float64(r.Count),
					Style: lipgloss.NewStyle().Foreground(r.Color),
				})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Format("02/01"),
			Values: values,
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	from, to := dateRange(h.now, h.offset)
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s a %s", from.Format("02/01"), to.AddDate(0, 0, -1).Format("02/01/2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Histórico de regas"), "  ", dateLabel,
	)
	streaks := lipgloss.JoinHorizontal(lipgloss.Bottom,
		waterStyle.Render(fmt.Sprintf("💧 %d dia(s) seguidos regando", h.streak)),
		"   ",
		highlightStyle.Render(fmt.Sprintf("📅 %d dia(s) de uso", h.visited)),
	)

	nav := mutedStyle.Render("  ←/→: semana anterior/seguinte")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, streaks, "", h.chart.View(), "", h.renderLegend(), "", h.renderTable(w), "", nav,
		),
	)
}

func (h historyModel) renderTable(w int) string {
	if len(h.rows) == 0 {
		return mutedStyle.Render("  Nenhuma rega neste período")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-24s %6s", "Data", "Planta", "Regas")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 44)))))
	for _, r := range h.rows {
		dot := lipgloss.NewStyle().Foreground(r.Color).Render("●")
		rows = append(rows, fmt.Sprintf("  %-12s %s %-22s %6d", formatDate(r.Day), dot, truncate(r.Plant, 22), r.Count))
	}
	return strings.Join(rows, "\n")
}

func (h historyModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, r := range h.rows {
		if seen[r.Plant] {
			continue
		}
		seen[r.Plant] = true
		dot := lipgloss.NewStyle().Foreground(r.Color).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, r.Plant))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
