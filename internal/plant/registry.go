package plant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/cantinho/internal/achievement"
	"go.uber.org/zap"
)

// StorageKey is the key the collection is persisted under.
const StorageKey = "myPlants"

// Storage is the persistence side-channel. *store.Store satisfies it.
type Storage interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

// Milestones receives the counters derived from the collection after every
// mutation. *achievement.Tracker satisfies it.
type Milestones interface {
	Unlock(id string) bool
	UpdateProgress(id string, current int)
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) { r.newID = gen }
}

// Registry is the authoritative collection of plants. Every mutation is
// persisted in full before the milestone counters are recomputed.
type Registry struct {
	mu         sync.Mutex
	storage    Storage
	milestones Milestones
	log        *zap.Logger
	now        func() time.Time
	newID      func() string
	plants     []Plant
}

// NewRegistry loads the persisted collection. milestones may be nil.
func NewRegistry(storage Storage, milestones Milestones, logger *zap.Logger, opts ...Option) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		storage:    storage,
		milestones: milestones,
		log:        logger.Named("plants"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	var plants []Plant
	if _, err := storage.LoadJSON(StorageKey, &plants); err != nil {
		return nil, fmt.Errorf("load plants: %w", err)
	}
	for i := range plants {
		plants[i] = repair(plants[i])
	}
	r.plants = plants
	return r, nil
}

// repair restores the history invariants of a record read from storage.
func repair(p Plant) Plant {
	sort.SliceStable(p.WateringHistory, func(i, j int) bool {
		return p.WateringHistory[i].At.Before(p.WateringHistory[j].At)
	})
	if n := len(p.WateringHistory); n > 0 {
		last := p.WateringHistory[n-1].At
		p.LastWateredAt = &last
	}
	if p.Species == "" {
		p.Species = DefaultSpecies
	}
	return p
}

// Add validates in and appends a new, never-watered plant.
func (r *Registry) Add(in NewPlant) (Plant, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return Plant{}, err
	}
	species := in.Species
	if species == "" {
		species = DefaultSpecies
	}

	r.mu.Lock()
	now := r.now()
	p := Plant{
		ID:                    r.newID(),
		Name:                  in.Name,
		Species:               species,
		WateringFrequencyDays: in.WateringFrequencyDays,
		ImageRef:              in.ImageRef,
		CreatedAt:             now,
		WateringHistory:       []Watering{},
	}
	r.plants = append(r.plants, p)
	r.persistLocked()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.log.Info("plant added", zap.String("id", p.ID), zap.String("name", p.Name))
	r.recompute(snap, now)
	return clonePlant(p), nil
}

// AddWithImage asks src for an image before adding the plant. A source that
// ends without an image leaves ImageRef as supplied in in; any other source
// error aborts the add.
func (r *Registry) AddWithImage(ctx context.Context, in NewPlant, src ImageSource) (Plant, error) {
	if err := in.normalized().Validate(); err != nil {
		return Plant{}, err
	}
	if src != nil {
		ref, err := src.RequestImage(ctx)
		switch {
		case err == nil:
			in.ImageRef = ref
		case errors.Is(err, ErrNoImage):
		default:
			return Plant{}, fmt.Errorf("request image: %w", err)
		}
	}
	return r.Add(in)
}

// Water records a manual watering at the current time.
func (r *Registry) Water(id string) (Plant, error) {
	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return Plant{}, fmt.Errorf("water %s: %w", id, ErrNotFound)
	}
	now := r.now()
	p := &r.plants[i]
	var previous *time.Time
	if p.LastWateredAt != nil {
		prev := *p.LastWateredAt
		previous = &prev
		// Keep the history ordered if the clock moved backwards.
		if now.Before(prev) {
			now = prev
		}
	}
	p.WateringHistory = append(p.WateringHistory, Watering{At: now, Note: ManualNote})
	p.LastWateredAt = &now
	out := clonePlant(*p)
	r.persistLocked()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.log.Info("plant watered", zap.String("id", id))
	if previous != nil && punctual(*previous, now, out.WateringFrequencyDays) {
		r.unlock(achievement.Punctual)
	}
	r.recompute(snap, now)
	return out, nil
}

// Delete removes the plant with id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	r.plants = append(r.plants[:i], r.plants[i+1:]...)
	r.persistLocked()
	snap := r.snapshotLocked()
	now := r.now()
	r.mu.Unlock()

	r.log.Info("plant deleted", zap.String("id", id))
	r.recompute(snap, now)
	return nil
}

// ConfirmDelete asks c before deleting. It reports whether the plant was
// removed.
func (r *Registry) ConfirmDelete(id string, c Confirmer) (bool, error) {
	p, ok := r.Get(id)
	if !ok {
		return false, fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if c != nil && !c.Confirm(DeletePrompt(p)) {
		return false, nil
	}
	if err := r.Delete(id); err != nil {
		return false, err
	}
	return true, nil
}

// DeletePrompt is the confirmation question for removing p.
func DeletePrompt(p Plant) string {
	return fmt.Sprintf("Tem certeza que deseja remover %q?", p.Name)
}

func (r *Registry) Get(id string) (Plant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id)
	if i < 0 {
		return Plant{}, false
	}
	return clonePlant(r.plants[i]), true
}

// List returns a copy of the collection in insertion order.
func (r *Registry) List() []Plant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plants)
}

// Filter returns the plants matching f on now's date.
func (r *Registry) Filter(f Filter, now time.Time) []Plant {
	var out []Plant
	for _, p := range r.List() {
		if f.Match(p, now) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) Stats(now time.Time) Stats {
	plants := r.List()
	s := Stats{Total: len(plants)}
	for _, p := range plants {
		if p.IsOverdue(now) {
			s.NeedingWater++
		}
		if p.WateredOn(now) {
			s.WateredToday++
		}
	}
	return s
}

// Sync recomputes the milestone counters without mutating the collection.
// Streak-based counters depend on the date, so this runs once per session.
func (r *Registry) Sync() {
	r.mu.Lock()
	snap := r.snapshotLocked()
	now := r.now()
	r.mu.Unlock()
	r.recompute(snap, now)
}

func (r *Registry) indexLocked(id string) int {
	for i := range r.plants {
		if r.plants[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) snapshotLocked() []Plant {
	out := make([]Plant, len(r.plants))
	for i, p := range r.plants {
		out[i] = clonePlant(p)
	}
	return out
}

func (r *Registry) persistLocked() {
	plants := r.plants
	if plants == nil {
		plants = []Plant{}
	}
	if err := r.storage.SaveJSON(StorageKey, plants); err != nil {
		// Best-effort: the in-memory collection stays authoritative.
		r.log.Warn("persist plants", zap.Error(err))
	}
}
