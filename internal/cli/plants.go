package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sadopc/cantinho/internal/capture"
	"github.com/sadopc/cantinho/internal/plant"
	"github.com/sadopc/cantinho/internal/reminder"
)

// errAmbiguous is returned when a name matches more than one plant.
var errAmbiguous = errors.New("more than one plant matches")

func newAddCmd(s *session) *cobra.Command {
	var (
		species string
		every   int
		image   string
	)
	cmd := &cobra.Command{
		Use:   "add [nome]",
		Short: "Adiciona uma planta ao jardim",
		Long: `Adiciona uma planta ao jardim.

A frequência padrão vem dos ajustes quando --every não é informado. --image
aceita uma URL http(s) ou o caminho de uma foto local, que é embutida.

Exemplo:
  cantinho add "Costela de Adão" --species "Monstera deliciosa" --every 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("every") {
				every = s.garden.DefaultFrequency()
			}
			in := plant.NewPlant{Name: args[0], Species: species, WateringFrequencyDays: every}

			var (
				p   plant.Plant
				err error
			)
			if image != "" {
				p, err = s.garden.Plants.AddWithImage(cmd.Context(), in, capture.Source(image))
			} else {
				p, err = s.garden.Plants.Add(in)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🌱 %s adicionada (id %s, regar a cada %d dia(s))\n", p.Name, p.ID, p.WateringFrequencyDays)
			return nil
		},
	}
	cmd.Flags().StringVar(&species, "species", "", "espécie")
	cmd.Flags().IntVar(&every, "every", 0, "regar a cada N dias")
	cmd.Flags().StringVar(&image, "image", "", "URL ou arquivo da foto")
	return cmd
}

func newWaterCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "water [id|nome]",
		Short: "Registra uma rega",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := s.findPlant(args[0])
			if err != nil {
				return err
			}
			p, err := s.garden.Plants.Water(target.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "💧 %s foi regada. Próxima rega: %s\n", p.Name, p.NextWatering(s.garden.Now()))
			return nil
		},
	}
}

func newRemoveCmd(s *session) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm [id|nome]",
		Aliases: []string{"remove"},
		Short:   "Remove uma planta",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := s.findPlant(args[0])
			if err != nil {
				return err
			}
			confirm := plant.ConfirmFunc(askConfirm)
			if yes {
				confirm = func(string) bool { return true }
			}
			removed, err := s.garden.Plants.ConfirmDelete(target.ID, confirm)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Remoção cancelada")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removida\n", target.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "não pedir confirmação")
	return cmd
}

// askConfirm shows a huh confirmation. Aborting the prompt counts as "no".
func askConfirm(prompt string) bool {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(prompt).Affirmative("Sim").Negative("Não").Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

func newListCmd(s *session) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Lista as plantas do jardim",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := plant.ParseFilter(filter)
			if err != nil {
				return err
			}
			now := s.garden.Now()
			plants := s.garden.Plants.Filter(f, now)
			out := cmd.OutOrStdout()
			if len(plants) == 0 {
				fmt.Fprintln(out, "Nenhuma planta encontrada")
				return nil
			}
			fmt.Fprintf(out, "%-38s %-20s %-20s %-14s %s\n", "ID", "Nome", "Espécie", "Última rega", "Próxima")
			for _, p := range plants {
				fmt.Fprintf(out, "%-38s %-20s %-20s %-14s %s\n",
					p.ID, p.Name, p.Species, lastWatered(p, s), p.NextWatering(now))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, needs-water ou watered")
	return cmd
}

func lastWatered(p plant.Plant, s *session) string {
	days, ok := p.DaysSinceWatered(s.garden.Now())
	switch {
	case !ok:
		return "nunca"
	case days == 0:
		return "hoje"
	case days == 1:
		return "ontem"
	default:
		return fmt.Sprintf("há %d dias", days)
	}
}

func newStatsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Mostra o resumo do jardim",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := s.garden.Now()
			st := s.garden.Plants.Stats(now)
			sum := s.garden.Achievements.Summary()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plantas:            %d\n", st.Total)
			fmt.Fprintf(out, "Precisam de água:   %d\n", st.NeedingWater)
			fmt.Fprintf(out, "Regadas hoje:       %d\n", st.WateredToday)
			fmt.Fprintf(out, "Dias seguidos rega: %d\n", plant.WateringStreak(s.garden.Plants.List(), now))
			fmt.Fprintf(out, "Dias de uso:        %d\n", s.garden.Visits.Count())
			fmt.Fprintf(out, "Conquistas:         %d/%d (%.0f%%)\n", sum.Unlocked, sum.Total, sum.Percent())
			return nil
		},
	}
}

func newRemindCmd(s *session) *cobra.Command {
	var (
		schedule string
		once     bool
	)
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Avisa quais plantas precisam de água",
		Long: `Verifica o jardim e lista as plantas que precisam de água. Sem --once o
comando continua rodando e repete a verificação conforme a expressão cron do
lembrete (--schedule, configuração ou ajustes, nesta ordem).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := reminder.New(s.garden.Plants, reminder.WriterNotifier{W: cmd.OutOrStdout()}, s.log,
				reminder.WithClock(s.garden.Now))
			if once {
				due, err := r.Check(cmd.Context())
				if err == nil && len(due) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Todas as plantas estão em dia 🌿")
				}
				return err
			}

			override := schedule
			if override == "" {
				override = s.cfg.Reminder.Schedule
			}
			expr := s.garden.ReminderSchedule(override)
			fmt.Fprintf(cmd.OutOrStdout(), "Lembretes agendados (%s). Ctrl+C para sair.\n", expr)

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return r.Run(ctx, expr)
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "expressão cron, ex.: \"0 9 * * *\"")
	cmd.Flags().BoolVar(&once, "once", false, "verifica uma vez e sai")
	return cmd
}

// findPlant resolves an ID or a case-insensitive name.
func (s *session) findPlant(ref string) (plant.Plant, error) {
	if p, ok := s.garden.Plants.Get(ref); ok {
		return p, nil
	}
	var matches []plant.Plant
	for _, p := range s.garden.Plants.List() {
		if strings.EqualFold(p.Name, strings.TrimSpace(ref)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return plant.Plant{}, fmt.Errorf("%q: %w", ref, plant.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return plant.Plant{}, fmt.Errorf("%q: %w, use the id", ref, errAmbiguous)
	}
}
