package achievement

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StorageKey is the key the tracker state is persisted under.
const StorageKey = "achievements"

// Storage is the persistence side-channel. *store.Store satisfies it.
type Storage interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// State is the persisted form of the tracker.
type State struct {
	Unlocked   []string             `json:"unlocked"`
	Progress   map[string]Progress  `json:"progress"`
	UnlockedAt map[string]time.Time `json:"unlockedAt,omitempty"`
}

// Status joins a definition with its current state for display.
type Status struct {
	Definition
	Unlocked   bool
	UnlockedAt time.Time
	Progress   Progress
}

type Summary struct {
	Unlocked int
	Total    int
}

// Percent returns the unlocked share in the range [0, 100].
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Unlocked) / float64(s.Total) * 100
}

type Option func(*Tracker)

// WithClock overrides the time source used to stamp unlocks.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Tracker owns the unlock set and progress counters. Unlocks are idempotent
// and terminal; counters never move backwards.
type Tracker struct {
	mu        sync.Mutex
	storage   Storage
	log       *zap.Logger
	now       func() time.Time
	state     State
	unlocked  map[string]struct{}
	observers []func(Definition)
}

// NewTracker loads the persisted state, filling in any catalog entries the
// stored record does not know about yet.
func NewTracker(storage Storage, logger *zap.Logger, opts ...Option) (*Tracker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		storage:  storage,
		log:      logger.Named("achievement"),
		now:      time.Now,
		unlocked: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	var st State
	if _, err := storage.LoadJSON(StorageKey, &st); err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	t.restore(st)
	return t, nil
}

func (t *Tracker) restore(st State) {
	t.state = State{
		Progress:   make(map[string]Progress),
		UnlockedAt: make(map[string]time.Time),
	}
	for _, id := range st.Unlocked {
		if _, ok := byID[id]; !ok {
			t.log.Warn("dropping unknown achievement", zap.String("id", id))
			continue
		}
		if _, dup := t.unlocked[id]; dup {
			continue
		}
		t.unlocked[id] = struct{}{}
		t.state.Unlocked = append(t.state.Unlocked, id)
		if at, ok := st.UnlockedAt[id]; ok {
			t.state.UnlockedAt[id] = at
		}
	}
	for _, d := range catalog {
		if d.Kind != KindProgress {
			continue
		}
		p := st.Progress[d.ID]
		p.Total = d.Total
		if p.Current < 0 {
			p.Current = 0
		}
		if p.Current > d.Total {
			p.Current = d.Total
		}
		t.state.Progress[d.ID] = p
		// A full counter implies the achievement is unlocked.
		if p.Current >= d.Total {
			t.unlockLocked(d.ID)
		}
	}
	// A stored record may hold every other achievement without the master.
	if _, done := t.unlocked[MasterGardener]; !done && len(t.unlocked) == len(catalog)-1 {
		t.unlockLocked(MasterGardener)
		t.persistLocked()
	}
}

// OnUnlock registers fn to be called, outside the tracker lock, for every
// achievement that transitions to unlocked.
func (t *Tracker) OnUnlock(fn func(Definition)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Unlock marks id as unlocked. It returns false if id was already unlocked or
// is not part of the catalog; in that case nothing is persisted or notified.
func (t *Tracker) Unlock(id string) bool {
	if _, ok := byID[id]; !ok {
		t.log.Warn("unlock of unknown achievement", zap.String("id", id))
		return false
	}

	t.mu.Lock()
	fired := t.unlockLocked(id)
	if len(fired) > 0 {
		t.persistLocked()
	}
	observers := t.observers
	t.mu.Unlock()

	t.notify(observers, fired)
	return len(fired) > 0
}

// UpdateProgress raises the counter of a progress achievement. Unknown or
// boolean ids are ignored. The stored value is max(existing, current) capped
// at the definition's total, and reaching the total unlocks the achievement
// in the same call.
func (t *Tracker) UpdateProgress(id string, current int) {
	d, ok := byID[id]
	if !ok || d.Kind != KindProgress {
		return
	}

	t.mu.Lock()
	p := t.state.Progress[id]
	next := min(current, d.Total)
	if next < p.Current {
		next = p.Current
	}
	changed := next != p.Current
	p.Current = next
	p.Total = d.Total
	t.state.Progress[id] = p

	var fired []Definition
	if current >= d.Total {
		fired = t.unlockLocked(id)
	}
	if changed || len(fired) > 0 {
		t.persistLocked()
	}
	observers := t.observers
	t.mu.Unlock()

	t.notify(observers, fired)
}

func (t *Tracker) IsUnlocked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.unlocked[id]
	return ok
}

// Progress returns the counter for a progress achievement.
func (t *Tracker) Progress(id string) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.state.Progress[id]
	return p, ok
}

func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{Unlocked: len(t.unlocked), Total: len(catalog)}
}

// Statuses lists every catalog entry with its current state, in catalog order.
func (t *Tracker) Statuses() []Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Status, 0, len(catalog))
	for _, d := range catalog {
		_, unlocked := t.unlocked[d.ID]
		out = append(out, Status{
			Definition: d,
			Unlocked:   unlocked,
			UnlockedAt: t.state.UnlockedAt[d.ID],
			Progress:   t.state.Progress[d.ID],
		})
	}
	return out
}

// Snapshot returns a deep copy of the persisted state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := State{
		Unlocked:   append([]string(nil), t.state.Unlocked...),
		Progress:   make(map[string]Progress, len(t.state.Progress)),
		UnlockedAt: make(map[string]time.Time, len(t.state.UnlockedAt)),
	}
	for k, v := range t.state.Progress {
		st.Progress[k] = v
	}
	for k, v := range t.state.UnlockedAt {
		st.UnlockedAt[k] = v
	}
	return st
}

// unlockLocked records id and, when it completes the rest of the catalog, the
// master achievement. It returns the definitions that changed state.
func (t *Tracker) unlockLocked(id string) []Definition {
	if _, ok := t.unlocked[id]; ok {
		return nil
	}
	t.unlocked[id] = struct{}{}
	t.state.Unlocked = append(t.state.Unlocked, id)
	t.state.UnlockedAt[id] = t.now()
	fired := []Definition{byID[id]}

	if id != MasterGardener && len(t.unlocked) == len(catalog)-1 {
		if _, done := t.unlocked[MasterGardener]; !done {
			fired = append(fired, t.unlockLocked(MasterGardener)...)
		}
	}
	return fired
}

func (t *Tracker) persistLocked() {
	if err := t.storage.SaveJSON(StorageKey, t.state); err != nil {
		// Best-effort: the in-memory state stays authoritative for the session.
		t.log.Warn("persist achievements", zap.Error(err))
	}
}

func (t *Tracker) notify(observers []func(Definition), fired []Definition) {
	for _, d := range fired {
		t.log.Info("achievement unlocked", zap.String("id", d.ID))
		for _, fn := range observers {
			fn(d)
		}
	}
}
