package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/cantinho/internal/achievement"
	"github.com/sadopc/cantinho/internal/encyclopedia"
)

func newAchievementsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Lista as conquistas",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sum := s.garden.Achievements.Summary()
			fmt.Fprintf(out, "%d de %d conquistas (%.0f%%)\n\n", sum.Unlocked, sum.Total, sum.Percent())
			for _, st := range s.garden.Achievements.Statuses() {
				mark := "[ ]"
				if st.Unlocked {
					mark = "[x]"
				}
				line := fmt.Sprintf("%s %-20s %s", mark, st.Title, st.Description)
				switch {
				case st.Unlocked && !st.UnlockedAt.IsZero():
					line += fmt.Sprintf(" (%s)", st.UnlockedAt.Local().Format("02/01/2006"))
				case st.Kind == achievement.KindProgress:
					line += fmt.Sprintf(" (%d/%d %s)", st.Progress.Current, st.Progress.Total, st.Unit)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newEncyclopediaCmd(s *session) *cobra.Command {
	var (
		category  string
		search    string
		favorites bool
	)
	cmd := &cobra.Command{
		Use:     "encyclopedia",
		Aliases: []string{"guide"},
		Short:   "Consulta a enciclopédia de plantas",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := category
			if favorites {
				filter = encyclopedia.FilterFavorites
			}
			items := s.garden.Guide.Filter(filter, search)
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Nenhuma planta encontrada")
				return nil
			}
			for _, it := range items {
				star := " "
				if it.Favorite {
					star = "★"
				}
				fmt.Fprintf(out, "%2d %s %-20s %-24s %s\n", it.ID, star, it.Name, it.ScientificName, encyclopedia.CategoryLabel(it.Category))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "folhagem, suculentas, samambaias ou flores")
	cmd.Flags().StringVarP(&search, "search", "s", "", "busca por nome ou nome científico")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "somente favoritas")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show [id]",
			Short: "Mostra os detalhes de uma planta",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				e, err := s.garden.Guide.View(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", e.Name, e.ScientificName)
				fmt.Fprintf(out, "Categoria: %s\n\n", encyclopedia.CategoryLabel(e.Category))
				fmt.Fprintln(out, e.Description)
				return nil
			},
		},
		&cobra.Command{
			Use:   "fav [id]",
			Short: "Marca ou desmarca uma favorita",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid id %q", args[0])
				}
				fav, err := s.garden.Guide.Toggle(id)
				if err != nil {
					return err
				}
				e, _ := encyclopedia.Lookup(id)
				if fav {
					fmt.Fprintf(cmd.OutOrStdout(), "★ %s adicionada às favoritas\n", e.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s removida das favoritas\n", e.Name)
				}
				return nil
			},
		},
	)
	return cmd
}
