package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/robfig/cron/v3"

	"github.com/sadopc/cantinho/internal/garden"
	"github.com/sadopc/cantinho/internal/store"
)

type settingsModel struct {
	garden *garden.Garden
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultFrequency *string
	reminderSchedule *string
}

func newSettingsModel(g *garden.Garden) settingsModel {
	freq, schedule := "", ""
	return settingsModel{
		garden:           g,
		defaultFrequency: &freq,
		reminderSchedule: &schedule,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.garden.Store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.defaultFrequency = strconv.Itoa(s.garden.DefaultFrequency())
	*s.reminderSchedule = s.garden.ReminderSchedule("")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Frequência padrão de rega (dias)").
				Value(s.defaultFrequency).
				Validate(validateFrequency),
			huh.NewInput().Title("Horário do lembrete (cron)").
				Description("minuto hora dia mês dia-da-semana, ex.: 0 9 * * *").
				Value(s.reminderSchedule).
				Validate(validateSchedule),
		).Title("Ajustes"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateSchedule(v string) error {
	if _, err := cron.ParseStandard(strings.TrimSpace(v)); err != nil {
		return errors.New("expressão cron inválida")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(errorCmd(err), s.refresh())
		}
		return s, tea.Batch(statusCmd("Ajustes salvos"), s.refresh())
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	days, err := strconv.Atoi(strings.TrimSpace(*s.defaultFrequency))
	if err != nil {
		return fmt.Errorf("frequência inválida: %w", err)
	}
	if err := s.garden.SetDefaultFrequency(days); err != nil {
		return err
	}
	return s.garden.SetReminderSchedule(strings.TrimSpace(*s.reminderSchedule))
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Ajustes")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Ajustes")
	hint := mutedStyle.Render("Pressione enter para editar")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(28).Render(settingLabel(setting.Key))
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	switch k {
	case store.SettingDefaultFrequency:
		return "Frequência padrão de rega"
	case store.SettingReminderSchedule:
		return "Horário do lembrete"
	}
	return k
}

func formatSettingValue(k, v string) string {
	if k == store.SettingDefaultFrequency {
		if days, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d dia(s)", days)
		}
	}
	return v
}
