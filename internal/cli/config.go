package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/cantinho/internal/config"
)

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Mostra a configuração em uso",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "db_path:           %s\n", s.cfg.DBPath)
			fmt.Fprintf(out, "log.level:         %s\n", s.cfg.Log.Level)
			fmt.Fprintf(out, "log.file:          %s\n", s.cfg.Log.File)
			fmt.Fprintf(out, "reminder.schedule: %s\n", s.garden.ReminderSchedule(s.cfg.Reminder.Schedule))
			fmt.Fprintf(out, "default_frequency: %d\n", s.garden.DefaultFrequency())
			return printRecords(cmd, s)
		},
	}

	var (
		frequency int
		schedule  string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Altera os ajustes guardados no banco",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("default-frequency") {
				if err := s.garden.SetDefaultFrequency(frequency); err != nil {
					return err
				}
			}
			if schedule != "" {
				if err := s.garden.SetReminderSchedule(schedule); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Ajustes salvos")
			return nil
		},
	}
	set.Flags().IntVar(&frequency, "default-frequency", 0, "frequência padrão de rega em dias")
	set.Flags().StringVar(&schedule, "reminder", "", "expressão cron do lembrete")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Grava um config.yaml com os valores atuais",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if exists(path) && !force {
				return fmt.Errorf("%s already exists (use --force)", path)
			}
			if err := s.cfg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuração gravada em %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "sobrescreve o arquivo existente")

	cmd.AddCommand(set, initCmd)
	return cmd
}

// printRecords lists the collections saved in the database with the time of
// their last write.
func printRecords(cmd *cobra.Command, s *session) error {
	keys, err := s.garden.Store.Keys()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\ndados salvos:")
	if len(keys) == 0 {
		fmt.Fprintln(out, "  (nenhum)")
		return nil
	}
	for _, k := range keys {
		e, err := s.garden.Store.GetEntry(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-16s atualizado em %s\n", e.Key, e.UpdatedAt.Local().Format("02/01/2006 15:04"))
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
