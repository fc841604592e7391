package plant

import (
	"time"

	"github.com/sadopc/cantinho/internal/achievement"
	"github.com/sadopc/cantinho/internal/calendar"
)

const (
	collectorSize = 5
	dedicatedDays = 7
	organizedWeek = 7
)

// recompute derives the collection-based counters and hands them to the
// milestone collaborator. It runs outside the registry lock.
func (r *Registry) recompute(plants []Plant, now time.Time) {
	if r.milestones == nil {
		return
	}

	count := len(plants)
	if count >= 1 {
		r.unlock(achievement.FirstPlant)
	}
	if count >= collectorSize {
		r.unlock(achievement.Collector)
	}
	r.milestones.UpdateProgress(achievement.ExpertGardener, count)

	streak := WateringStreak(plants, now)
	if streak >= dedicatedDays {
		r.unlock(achievement.DedicatedWaterer)
	}
	r.milestones.UpdateProgress(achievement.PerfectStreak, streak)
	r.milestones.UpdateProgress(achievement.GreenThumb, streak)

	if Organized(plants, now) {
		r.unlock(achievement.Organizer)
	}
}

func (r *Registry) unlock(id string) {
	if r.milestones != nil {
		r.milestones.Unlock(id)
	}
}

// WateringStreak counts the consecutive days, ending today or yesterday, on
// which at least one plant was watered.
func WateringStreak(plants []Plant, now time.Time) int {
	var instants []time.Time
	for _, p := range plants {
		for _, w := range p.WateringHistory {
			instants = append(instants, w.At)
		}
	}
	return calendar.Streak(instants, now)
}

// Organized reports whether every plant, each tracked for at least a week,
// stayed on schedule on each of the last seven days.
func Organized(plants []Plant, now time.Time) bool {
	if len(plants) == 0 {
		return false
	}
	loc := now.Location()
	today := calendar.Day(now, loc)
	for _, p := range plants {
		if calendar.DaysBetween(p.CreatedAt, now) < organizedWeek {
			return false
		}
		for i := 0; i < organizedWeek; i++ {
			if !onScheduleOn(p, today.AddDate(0, 0, -i)) {
				return false
			}
		}
	}
	return true
}

// onScheduleOn replays the history up to day and reports whether p was not
// overdue on that date.
func onScheduleOn(p Plant, day time.Time) bool {
	var last *time.Time
	for i := range p.WateringHistory {
		at := p.WateringHistory[i].At
		if calendar.DaysBetween(at, day) < 0 {
			break
		}
		last = &at
	}
	if last == nil {
		return false
	}
	return calendar.DaysBetween(*last, day) < p.WateringFrequencyDays
}

// punctual reports whether a watering at now lands on the exact day the
// plant became due after the previous watering.
func punctual(previous, now time.Time, frequency int) bool {
	return calendar.DaysBetween(previous, now) == frequency
}
