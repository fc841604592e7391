// Package reminder periodically looks for thirsty plants and hands them to a
// Notifier.
package reminder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sadopc/cantinho/internal/plant"
)

// DefaultSchedule runs the check every morning at nine.
const DefaultSchedule = "0 9 * * *"

// Lister is the read side of the plant registry.
type Lister interface {
	Filter(f plant.Filter, now time.Time) []plant.Plant
}

// Notifier delivers the list of plants that need water.
type Notifier interface {
	Notify(ctx context.Context, now time.Time, due []plant.Plant) error
}

type NotifierFunc func(ctx context.Context, now time.Time, due []plant.Plant) error

func (f NotifierFunc) Notify(ctx context.Context, now time.Time, due []plant.Plant) error {
	return f(ctx, now, due)
}

// WriterNotifier prints one line per plant.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, now time.Time, due []plant.Plant) error {
	fmt.Fprintf(n.W, "[%s] %d planta(s) precisam de água:\n", now.Format("02/01 15:04"), len(due))
	for _, p := range due {
		if _, err := fmt.Fprintf(n.W, "  - %s\n", Message(p, now)); err != nil {
			return err
		}
	}
	return nil
}

// Message describes why p is due.
func Message(p plant.Plant, now time.Time) string {
	days, ok := p.DaysSinceWatered(now)
	switch {
	case !ok:
		return fmt.Sprintf("%s (nunca foi regada)", p.Name)
	case days == 1:
		return fmt.Sprintf("%s (última rega ontem, a cada %d dia(s))", p.Name, p.WateringFrequencyDays)
	default:
		return fmt.Sprintf("%s (última rega há %d dias, a cada %d dia(s))", p.Name, days, p.WateringFrequencyDays)
	}
}

type Option func(*Reminder)

func WithClock(now func() time.Time) Option {
	return func(r *Reminder) { r.now = now }
}

type Reminder struct {
	plants   Lister
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func New(plants Lister, notifier Notifier, logger *zap.Logger, opts ...Option) *Reminder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reminder{
		plants:   plants,
		notifier: notifier,
		log:      logger.Named("reminder"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check runs a single pass. The notifier is only called when at least one
// plant needs water.
func (r *Reminder) Check(ctx context.Context) ([]plant.Plant, error) {
	now := r.now()
	due := r.plants.Filter(plant.FilterNeedsWater, now)
	r.log.Debug("reminder check", zap.Int("due", len(due)))
	if len(due) == 0 {
		return nil, nil
	}
	if err := r.notifier.Notify(ctx, now, due); err != nil {
		return due, fmt.Errorf("notify: %w", err)
	}
	return due, nil
}

// Run checks once immediately and then on every tick of schedule until ctx
// is cancelled.
func (r *Reminder) Run(ctx context.Context, schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { r.tick(ctx) }); err != nil {
		return fmt.Errorf("schedule reminder %q: %w", schedule, err)
	}

	r.tick(ctx)
	c.Start()
	r.log.Info("reminder scheduled", zap.String("schedule", schedule))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (r *Reminder) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := r.Check(ctx); err != nil {
		r.log.Warn("reminder failed", zap.Error(err))
	}
}
