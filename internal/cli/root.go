// Package cli is the cantinho command line. Without arguments it opens the
// terminal UI; the sub-commands cover quick edits and the reminder daemon.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/cantinho/internal/config"
	"github.com/sadopc/cantinho/internal/garden"
	"github.com/sadopc/cantinho/internal/logging"
	"github.com/sadopc/cantinho/internal/store"
	"github.com/sadopc/cantinho/internal/tui"
)

// session holds what PersistentPreRunE opens for the running command.
type session struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	log    *zap.Logger
	garden *garden.Garden

	// gardenOpts is extended by tests to pin the clock.
	gardenOpts []garden.Option
}

// Execute runs the root command against os.Args.
func Execute() {
	s := &session{}
	cmd := newRootCmd(s)
	err := cmd.Execute()
	s.close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "cantinho",
		Short: "cantinho - seu jardim no terminal",
		Long: `cantinho acompanha as regas das suas plantas, guarda uma pequena
enciclopédia e desbloqueia conquistas conforme você cuida do jardim.

Execute sem argumentos para abrir a interface interativa.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.NewApp(s.garden), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&s.configPath, "config", "", "arquivo de configuração (padrão ~/.config/cantinho/config.yaml)")
	root.PersistentFlags().StringVar(&s.dbPath, "db", "", "caminho do banco de dados")
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "log em nível debug")

	root.AddCommand(
		newAddCmd(s),
		newWaterCmd(s),
		newRemoveCmd(s),
		newListCmd(s),
		newStatsCmd(s),
		newAchievementsCmd(s),
		newEncyclopediaCmd(s),
		newRemindCmd(s),
		newConfigCmd(s),
	)
	return root
}

// open loads the configuration, builds the logger and opens the garden. The
// visit of the day is recorded before any command runs.
func (s *session) open() error {
	path := s.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if s.dbPath != "" {
		cfg.DBPath = s.dbPath
	}
	if s.verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return err
		}
		cfg.DBPath = p
	}
	s.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	s.log = logger

	g, err := garden.Open(cfg.DBPath, logger, s.gardenOpts...)
	if err != nil {
		return fmt.Errorf("open garden: %w", err)
	}
	s.garden = g
	streak := g.Touch()
	logger.Debug("opened garden", zap.String("db", cfg.DBPath), zap.Int("visit_streak", streak))
	return nil
}

func (s *session) close() {
	if s.garden != nil {
		if err := s.garden.Close(); err != nil && s.log != nil {
			s.log.Warn("close garden", zap.Error(err))
		}
		s.garden = nil
	}
	if s.log != nil {
		_ = s.log.Sync()
	}
}
