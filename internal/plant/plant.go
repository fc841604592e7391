// Package plant owns the tracked plants of the garden and everything derived
// from their watering history: overdue status, next-watering estimates,
// filters and the daily stats shown on the dashboard.
package plant

import (
	"fmt"
	"math"
	"time"

	"github.com/sadopc/cantinho/internal/calendar"
)

const (
	// DefaultSpecies is stored when a plant is added without a species.
	DefaultSpecies = "Não especificada"
	// ManualNote annotates waterings recorded by the user.
	ManualNote = "Rega manual"
)

// Watering is one entry of a plant's watering history.
type Watering struct {
	At   time.Time `json:"date"`
	Note string    `json:"note"`
}

// Plant is a tracked plant. WateringHistory is append-only and ordered by
// time; LastWateredAt mirrors its last entry.
type Plant struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Species               string     `json:"species"`
	WateringFrequencyDays int        `json:"wateringFrequency"`
	ImageRef              string     `json:"imageUrl,omitempty"`
	LastWateredAt         *time.Time `json:"lastWatered"`
	CreatedAt             time.Time  `json:"createdAt"`
	WateringHistory       []Watering `json:"wateringHistory"`
}

// IsOverdue reports whether the plant needs water on now's date. A plant
// that was never watered is always overdue.
func (p Plant) IsOverdue(now time.Time) bool {
	days, ok := p.DaysSinceWatered(now)
	if !ok {
		return true
	}
	return days >= p.WateringFrequencyDays
}

// DaysSinceWatered returns the calendar days elapsed since the last watering.
// ok is false when the plant was never watered.
func (p Plant) DaysSinceWatered(now time.Time) (days int, ok bool) {
	if p.LastWateredAt == nil {
		return 0, false
	}
	return calendar.DaysBetween(*p.LastWateredAt, now), true
}

// WateredOn reports whether the last watering fell on now's date.
func (p Plant) WateredOn(now time.Time) bool {
	return p.LastWateredAt != nil && calendar.SameDay(*p.LastWateredAt, now)
}

// NextWatering estimates when the plant is due again.
func (p Plant) NextWatering(now time.Time) NextWatering {
	if p.LastWateredAt == nil {
		return NextWatering{}
	}
	due := p.LastWateredAt.AddDate(0, 0, p.WateringFrequencyDays)
	days := int(math.Ceil(float64(due.Sub(now)) / float64(24*time.Hour)))
	if days < 0 {
		days = 0
	}
	return NextWatering{Days: days}
}

// NextWatering is the categorical due estimate. Days is zero when the plant
// is due today or already late.
type NextWatering struct {
	Days int
}

// IsToday reports whether the plant is due today or late.
func (n NextWatering) IsToday() bool { return n.Days <= 0 }

// IsTomorrow reports whether the plant is due on the next calendar day.
func (n NextWatering) IsTomorrow() bool { return n.Days == 1 }

// Label renders the estimate as "Hoje", "Amanhã" or "Em N dias".
func (n NextWatering) Label() string {
	switch {
	case n.IsToday():
		return "Hoje"
	case n.IsTomorrow():
		return "Amanhã"
	default:
		return fmt.Sprintf("Em %d dias", n.Days)
	}
}

// String implements fmt.Stringer.
func (n NextWatering) String() string { return n.Label() }

// Filter selects a subset of the collection by watering status.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterNeedsWater Filter = "needs-water"
	FilterWatered    Filter = "watered"
)

// ParseFilter accepts the filter names used on the command line.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterAll, FilterNeedsWater, FilterWatered:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, needs-water or watered)", s)
	}
}

// Label is the Portuguese name shown in the filter bar.
func (f Filter) Label() string {
	switch f {
	case FilterNeedsWater:
		return "Precisam de água"
	case FilterWatered:
		return "Regadas"
	default:
		return "Todas"
	}
}

// Match reports whether p belongs to the filtered set on now's date.
func (f Filter) Match(p Plant, now time.Time) bool {
	switch f {
	case FilterNeedsWater:
		return p.IsOverdue(now)
	case FilterWatered:
		return !p.IsOverdue(now)
	default:
		return true
	}
}

// Stats is the dashboard summary.
type Stats struct {
	Total        int
	NeedingWater int
	WateredToday int
}

func clonePlant(p Plant) Plant {
	if p.LastWateredAt != nil {
		t := *p.LastWateredAt
		p.LastWateredAt = &t
	}
	p.WateringHistory = append([]Watering(nil), p.WateringHistory...)
	return p
}
