package achievement

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sadopc/cantinho/internal/calendar"
	"go.uber.org/zap"
)

// VisitsKey holds the distinct days (YYYY-MM-DD) the app was used.
const VisitsKey = "activeDays"

// Visits records usage days and drives the consecutive-use counter.
type Visits struct {
	mu      sync.Mutex
	storage Storage
	tracker *Tracker
	log     *zap.Logger
	days    map[string]struct{}
}

func NewVisits(storage Storage, tracker *Tracker, logger *zap.Logger) (*Visits, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var keys []string
	if _, err := storage.LoadJSON(VisitsKey, &keys); err != nil {
		return nil, fmt.Errorf("load visits: %w", err)
	}
	v := &Visits{
		storage: storage,
		tracker: tracker,
		log:     logger.Named("visits"),
		days:    make(map[string]struct{}, len(keys)),
	}
	for _, k := range keys {
		v.days[k] = struct{}{}
	}
	return v, nil
}

// Record marks now's date as used and returns the current run of
// consecutive days.
func (v *Visits) Record(now time.Time) int {
	v.mu.Lock()
	key := calendar.Key(now, now.Location())
	if _, seen := v.days[key]; !seen {
		v.days[key] = struct{}{}
		if err := v.storage.SaveJSON(VisitsKey, v.sortedLocked()); err != nil {
			v.log.Warn("persist visits", zap.Error(err))
		}
	}

	instants := make([]time.Time, 0, len(v.days))
	for k := range v.days {
		d, err := calendar.ParseKey(k, now.Location())
		if err != nil {
			continue
		}
		instants = append(instants, d)
	}
	v.mu.Unlock()

	streak := calendar.Streak(instants, now)
	if v.tracker != nil {
		v.tracker.UpdateProgress(Veteran, streak)
	}
	return streak
}

// Count returns how many distinct days have been recorded.
func (v *Visits) Count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.days)
}

func (v *Visits) sortedLocked() []string {
	out := make([]string, 0, len(v.days))
	for k := range v.days {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
