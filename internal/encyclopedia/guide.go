package encyclopedia

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sadopc/cantinho/internal/achievement"
	"go.uber.org/zap"
)

const (
	FavoritesKey = "favoritePlants"
	ViewedKey    = "viewedPlants"

	// FilterAll and FilterFavorites are accepted by Guide.Filter next to the
	// category names.
	FilterAll       = "all"
	FilterFavorites = "favorites"

	favoritesForLover = 3
)

var ErrUnknownEntry = errors.New("unknown encyclopedia entry")

// Storage is the persistence side-channel. *store.Store satisfies it.
type Storage interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

// Milestones is the part of the achievement tracker the guide reports to.
type Milestones interface {
	Unlock(id string) bool
	UpdateProgress(id string, current int)
}

// Item is an entry decorated with the user's state.
type Item struct {
	Entry
	Favorite bool
	Viewed   bool
}

// Guide holds the user's favorites and viewed entries over the static catalog.
type Guide struct {
	mu         sync.Mutex
	storage    Storage
	milestones Milestones
	log        *zap.Logger
	favorites  map[int]bool
	viewed     []int
}

// NewGuide loads favorites and views. Ids no longer in the catalog are
// dropped. milestones may be nil.
func NewGuide(storage Storage, milestones Milestones, logger *zap.Logger) (*Guide, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Guide{
		storage:    storage,
		milestones: milestones,
		log:        logger.Named("encyclopedia"),
		favorites:  make(map[int]bool),
	}

	var favs, viewed []int
	if _, err := storage.LoadJSON(FavoritesKey, &favs); err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if _, err := storage.LoadJSON(ViewedKey, &viewed); err != nil {
		return nil, fmt.Errorf("load viewed entries: %w", err)
	}
	for _, id := range favs {
		if _, ok := Lookup(id); ok {
			g.favorites[id] = true
		}
	}
	seen := map[int]bool{}
	for _, id := range viewed {
		if _, ok := Lookup(id); ok && !seen[id] {
			seen[id] = true
			g.viewed = append(g.viewed, id)
		}
	}
	return g, nil
}

// Toggle flips the favorite flag of id and returns the new value. Reaching
// three favorites unlocks the plant-lover achievement.
func (g *Guide) Toggle(id int) (bool, error) {
	if _, ok := Lookup(id); !ok {
		return false, fmt.Errorf("toggle %d: %w", id, ErrUnknownEntry)
	}

	g.mu.Lock()
	fav := !g.favorites[id]
	if fav {
		g.favorites[id] = true
	} else {
		delete(g.favorites, id)
	}
	count := len(g.favorites)
	if err := g.storage.SaveJSON(FavoritesKey, g.favoriteIDsLocked()); err != nil {
		g.log.Warn("persist favorites", zap.Error(err))
	}
	g.mu.Unlock()

	if count >= favoritesForLover && g.milestones != nil {
		g.milestones.Unlock(achievement.PlantLover)
	}
	return fav, nil
}

func (g *Guide) IsFavorite(id int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.favorites[id]
}

// FavoriteCount returns how many entries are favorites.
func (g *Guide) FavoriteCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.favorites)
}

// View returns the entry and records the first view of it. Each new view
// reports the distinct-view count to the explorer counter.
func (g *Guide) View(id int) (Entry, error) {
	e, ok := Lookup(id)
	if !ok {
		return Entry{}, fmt.Errorf("view %d: %w", id, ErrUnknownEntry)
	}

	g.mu.Lock()
	first := true
	for _, v := range g.viewed {
		if v == id {
			first = false
			break
		}
	}
	if first {
		g.viewed = append(g.viewed, id)
		if err := g.storage.SaveJSON(ViewedKey, g.viewed); err != nil {
			g.log.Warn("persist viewed entries", zap.Error(err))
		}
	}
	count := len(g.viewed)
	g.mu.Unlock()

	if first && g.milestones != nil {
		g.milestones.UpdateProgress(achievement.Explorer, count)
	}
	return e, nil
}

func (g *Guide) ViewedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.viewed)
}

// Filter applies the category filter (a category, FilterFavorites or
// FilterAll) and then a case-insensitive search over the common and
// scientific names.
func (g *Guide) Filter(filter, search string) []Item {
	search = strings.ToLower(strings.TrimSpace(search))

	g.mu.Lock()
	defer g.mu.Unlock()
	viewed := make(map[int]bool, len(g.viewed))
	for _, id := range g.viewed {
		viewed[id] = true
	}

	var out []Item
	for _, e := range entries {
		item := Item{Entry: e, Favorite: g.favorites[e.ID], Viewed: viewed[e.ID]}
		switch filter {
		case "", FilterAll:
		case FilterFavorites:
			if !item.Favorite {
				continue
			}
		default:
			if e.Category != filter {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.ScientificName), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (g *Guide) favoriteIDsLocked() []int {
	ids := make([]int, 0, len(g.favorites))
	for id := range g.favorites {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
