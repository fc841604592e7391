package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/cantinho/internal/capture"
	"github.com/sadopc/cantinho/internal/garden"
	"github.com/sadopc/cantinho/internal/plant"
)

var plantFilters = []plant.Filter{plant.FilterAll, plant.FilterNeedsWater, plant.FilterWatered}

type plantsModel struct {
	garden *garden.Garden
	width  int
	height int

	now       time.Time
	plants    []plant.Plant
	stats     plant.Stats
	filterIdx int
	cursor    int
	detail    bool

	formActive bool
	form       *huh.Form
	formType   string // "add", "delete"

	// Form field pointers (survive value copies)
	formName      *string
	formSpecies   *string
	formFrequency *string
	formImage     *string
	formConfirm   *bool

	deletingID string
}

func newPlantsModel(g *garden.Garden) plantsModel {
	name, species, freq, image := "", "", "", ""
	confirm := false
	return plantsModel{
		garden:        g,
		formName:      &name,
		formSpecies:   &species,
		formFrequency: &freq,
		formImage:     &image,
		formConfirm:   &confirm,
	}
}

func (p plantsModel) Init() tea.Cmd {
	return p.refresh()
}

func (p *plantsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p plantsModel) filter() plant.Filter {
	return plantFilters[p.filterIdx]
}

type plantsDataMsg struct {
	now    time.Time
	plants []plant.Plant
	stats  plant.Stats
}

func (p plantsModel) refresh() tea.Cmd {
	f := p.filter()
	return func() tea.Msg {
		now := p.garden.Now()
		return plantsDataMsg{
			now:    now,
			plants: p.garden.Plants.Filter(f, now),
			stats:  p.garden.Plants.Stats(now),
		}
	}
}

func (p plantsModel) selected() (plant.Plant, bool) {
	if p.cursor < 0 || p.cursor >= len(p.plants) {
		return plant.Plant{}, false
	}
	return p.plants[p.cursor], true
}

func (p plantsModel) update(msg tea.Msg) (plantsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case plantsDataMsg:
		p.now = msg.now
		p.plants = msg.plants
		p.stats = msg.stats
		if p.cursor >= len(p.plants) {
			p.cursor = max(0, len(p.plants)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.detail {
			if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Enter) {
				p.detail = false
				return p, nil
			}
		}
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.plants)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Filter):
			p.filterIdx = (p.filterIdx + 1) % len(plantFilters)
			p.cursor = 0
			return p, p.refresh()
		case key.Matches(msg, keys.Enter):
			if len(p.plants) > 0 {
				p.detail = true
			}
		case key.Matches(msg, keys.New):
			return p.showAddForm()
		case key.Matches(msg, keys.Water):
			if sel, ok := p.selected(); ok {
				return p, p.water(sel)
			}
		case key.Matches(msg, keys.Delete):
			if sel, ok := p.selected(); ok {
				return p.showDeleteForm(sel)
			}
		}
	}
	return p, nil
}

func (p plantsModel) water(sel plant.Plant) tea.Cmd {
	return func() tea.Msg {
		if _, err := p.garden.Plants.Water(sel.ID); err != nil {
			return statusMsg{text: fmt.Sprintf("Erro: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("💧 %s foi regada", sel.Name)}
	}
}

func (p plantsModel) showAddForm() (plantsModel, tea.Cmd) {
	*p.formName = ""
	*p.formSpecies = ""
	*p.formFrequency = strconv.Itoa(p.garden.DefaultFrequency())
	*p.formImage = ""
	p.formType = "add"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Nome da planta").Value(p.formName).Validate(validateName),
			huh.NewInput().Title("Espécie").Placeholder(plant.DefaultSpecies).Value(p.formSpecies),
			huh.NewInput().Title("Regar a cada (dias)").Value(p.formFrequency).Validate(validateFrequency),
			huh.NewInput().Title("Foto (URL ou arquivo)").Placeholder("opcional").Value(p.formImage),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plantsModel) showDeleteForm(sel plant.Plant) (plantsModel, tea.Cmd) {
	*p.formConfirm = false
	p.formType = "delete"
	p.deletingID = sel.ID

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(plant.DeletePrompt(sel)).
				Affirmative("Sim").
				Negative("Não").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)

	p.formActive = true
	return p, p.form.Init()
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("informe o nome da planta")
	}
	return nil
}

func validateFrequency(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("use um número inteiro de dias maior que zero")
	}
	return nil
}

func (p plantsModel) updateForm(msg tea.Msg) (plantsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "add":
			return p, p.addPlant(p.newPlantInput(), *p.formImage)
		case "delete":
			return p, p.deletePlant(p.deletingID, *p.formConfirm)
		}
	}

	return p, cmd
}

func (p plantsModel) newPlantInput() plant.NewPlant {
	freq, _ := strconv.Atoi(strings.TrimSpace(*p.formFrequency))
	return plant.NewPlant{
		Name:                  *p.formName,
		Species:               *p.formSpecies,
		WateringFrequencyDays: freq,
	}
}

func (p plantsModel) addPlant(in plant.NewPlant, image string) tea.Cmd {
	return func() tea.Msg {
		var (
			added plant.Plant
			err   error
		)
		if strings.TrimSpace(image) != "" {
			added, err = p.garden.Plants.AddWithImage(context.Background(), in, capture.Source(image))
		} else {
			added, err = p.garden.Plants.Add(in)
		}
		if err != nil {
			if errors.Is(err, plant.ErrCapabilityDenied) {
				return statusMsg{text: "Sem permissão para ler a foto", isError: true}
			}
			return statusMsg{text: fmt.Sprintf("Erro: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("🌱 %s adicionada ao jardim", added.Name)}
	}
}

func (p plantsModel) deletePlant(id string, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		removed, err := p.garden.Plants.ConfirmDelete(id, plant.ConfirmFunc(func(string) bool { return confirmed }))
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Erro: %v", err), isError: true}
		}
		if !removed {
			return statusMsg{text: "Remoção cancelada"}
		}
		return statusMsg{text: "Planta removida"}
	}
}

func (p plantsModel) view() string {
	if p.width < 20 {
		return "Terminal muito pequeno"
	}
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("Nova planta")
		if p.formType == "delete" {
			title = titleStyle.Render("Remover planta")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	stats := p.renderStats(w)
	if p.detail {
		if sel, ok := p.selected(); ok {
			return lipgloss.JoinVertical(lipgloss.Left, stats, p.renderDetail(sel, w))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, stats, p.renderList(w))
}

func (p plantsModel) renderStats(w int) string {
	cardW := max(12, (w-6)/3)
	card := func(label string, value int, style lipgloss.Style) string {
		return statCardStyle.Width(cardW).Render(
			lipgloss.JoinVertical(lipgloss.Center, style.Render(strconv.Itoa(value)), mutedStyle.Render(label)),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Plantas", p.stats.Total, statValueStyle),
		card("Precisam de água", p.stats.NeedingWater, warningStyle.Bold(true)),
		card("Regadas hoje", p.stats.WateredToday, waterStyle.Bold(true)),
	)
}

func (p plantsModel) renderList(w int) string {
	title := titleStyle.Render("Meu Jardim") + "  " + mutedStyle.Render("filtro: "+p.filter().Label())

	if len(p.plants) == 0 {
		hint := "Nenhuma planta por aqui. Pressione n para adicionar."
		if p.filter() != plant.FilterAll {
			hint = "Nenhuma planta neste filtro."
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render(hint))
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-22s %-22s %-16s %-14s %s", "Nome", "Espécie", "Status", "Última rega", "Próxima")))

	for i, pl := range p.plants {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		status := successStyle.Render(fmt.Sprintf("%-16s", "Em dia"))
		if pl.IsOverdue(p.now) {
			status = warningStyle.Render(fmt.Sprintf("%-16s", "Precisa de água"))
		}
		row := style.Render(fmt.Sprintf("%s🌿 %-22s", cursor, truncate(pl.Name, 22))) + " " +
			subtitleStyle.Render(fmt.Sprintf("%-22s", truncate(pl.Species, 22))) + " " +
			status + " " +
			fmt.Sprintf("%-14s", formatDaysAgo(pl.DaysSinceWatered(p.now))) + " " +
			highlightStyle.Render(pl.NextWatering(p.now).Label())
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: nova  w: regar  d: remover  f: filtro  enter: detalhes"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p plantsModel) renderDetail(pl plant.Plant, w int) string {
	label := func(s string) string { return lipgloss.NewStyle().Width(20).Render(mutedStyle.Render(s)) }

	rows := []string{
		titleStyle.Render("🌿 " + pl.Name),
		subtitleStyle.Render(pl.Species),
		"",
		label("Regar a cada") + fmt.Sprintf("%d dia(s)", pl.WateringFrequencyDays),
		label("Última rega") + formatDaysAgo(pl.DaysSinceWatered(p.now)),
		label("Próxima rega") + highlightStyle.Render(pl.NextWatering(p.now).Label()),
		label("No jardim desde") + formatDate(pl.CreatedAt),
	}
	if pl.ImageRef != "" {
		ref := pl.ImageRef
		if capture.IsEmbedded(ref) {
			ref = "foto embutida"
		}
		rows = append(rows, label("Foto")+truncate(ref, w-28))
	}

	rows = append(rows, "", titleStyle.Render("Histórico de regas"))
	if len(pl.WateringHistory) == 0 {
		rows = append(rows, mutedStyle.Render("  Nenhuma rega registrada"))
	}
	start := max(0, len(pl.WateringHistory)-5)
	for i := len(pl.WateringHistory) - 1; i >= start; i-- {
		h := pl.WateringHistory[i]
		rows = append(rows, fmt.Sprintf("  💧 %s %s  %s", formatDate(h.At), h.At.Local().Format("15:04"), mutedStyle.Render(h.Note)))
	}

	rows = append(rows, "", mutedStyle.Render("  w: regar  d: remover  esc: voltar"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
