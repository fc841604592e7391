// Package garden wires the store, the achievement tracker and the domain
// components into one session object shared by the CLI and the TUI.
package garden

import (
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sadopc/cantinho/internal/achievement"
	"github.com/sadopc/cantinho/internal/encyclopedia"
	"github.com/sadopc/cantinho/internal/plant"
	"github.com/sadopc/cantinho/internal/store"
)

type Garden struct {
	Store        *store.Store
	Achievements *achievement.Tracker
	Plants       *plant.Registry
	Guide        *encyclopedia.Guide
	Visits       *achievement.Visits

	log *zap.Logger
	now func() time.Time
}

type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the time source of every component.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// Open opens the database at dbPath and builds a garden on top of it.
func Open(dbPath string, logger *zap.Logger, opts ...Option) (*Garden, error) {
	s, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}
	g, err := New(s, logger, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return g, nil
}

// New builds the components over an open store. The tracker is created first
// and injected into the registry and the encyclopedia.
func New(s *store.Store, logger *zap.Logger, opts ...Option) (*Garden, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	tracker, err := achievement.NewTracker(s, logger, achievement.WithClock(o.now))
	if err != nil {
		return nil, err
	}
	plantOpts := []plant.Option{plant.WithClock(o.now)}
	if o.newID != nil {
		plantOpts = append(plantOpts, plant.WithIDGenerator(o.newID))
	}
	registry, err := plant.NewRegistry(s, tracker, logger, plantOpts...)
	if err != nil {
		return nil, err
	}
	guide, err := encyclopedia.NewGuide(s, tracker, logger)
	if err != nil {
		return nil, err
	}
	visits, err := achievement.NewVisits(s, tracker, logger)
	if err != nil {
		return nil, err
	}

	return &Garden{
		Store:        s,
		Achievements: tracker,
		Plants:       registry,
		Guide:        guide,
		Visits:       visits,
		log:          logger,
		now:          o.now,
	}, nil
}

// Touch records today's visit and refreshes the date-dependent counters. It
// returns the current run of consecutive days of use.
func (g *Garden) Touch() int {
	streak := g.Visits.Record(g.now())
	g.Plants.Sync()
	g.log.Debug("session started", zap.Int("streak", streak))
	return streak
}

func (g *Garden) Now() time.Time { return g.now() }

// DefaultFrequency is the watering interval prefilled in the add form.
func (g *Garden) DefaultFrequency() int {
	n := g.Store.SettingInt(store.SettingDefaultFrequency, 7)
	if n <= 0 {
		return 7
	}
	return n
}

func (g *Garden) SetDefaultFrequency(days int) error {
	if days <= 0 {
		return fmt.Errorf("default frequency must be positive, got %d", days)
	}
	return g.Store.SetSetting(store.SettingDefaultFrequency, strconv.Itoa(days))
}

// ReminderSchedule returns override when set, otherwise the stored setting.
func (g *Garden) ReminderSchedule(override string) string {
	if override != "" {
		return override
	}
	v, err := g.Store.GetSetting(store.SettingReminderSchedule)
	if err != nil || v == "" {
		return "0 9 * * *"
	}
	return v
}

// SetReminderSchedule stores a standard five-field cron expression.
func (g *Garden) SetReminderSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", expr, err)
	}
	return g.Store.SetSetting(store.SettingReminderSchedule, expr)
}

func (g *Garden) Close() error {
	return g.Store.Close()
}
