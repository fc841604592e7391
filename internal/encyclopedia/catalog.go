// Package encyclopedia is the static plant reference shown next to the
// garden. The entries never change; only the user's favorites and the set of
// entries already viewed are persisted.
package encyclopedia

import "strings"

const (
	CategoryFoliage    = "folhagem"
	CategorySucculents = "suculentas"
	CategoryFerns      = "samambaias"
	CategoryFlowers    = "flores"
)

// Entry is one encyclopedia article.
type Entry struct {
	ID             int
	Name           string
	ScientificName string
	Category       string
	Description    string
	Image          string
}

var entries = []Entry{
	{
		ID:             1,
		Name:           "Costela de Adão",
		ScientificName: "Monstera deliciosa",
		Category:       CategoryFoliage,
		Description:    "Planta tropical conhecida por suas folhas grandes e perfuradas. Ideal para ambientes internos com boa luminosidade.",
		Image:          "/placeholder.svg?height=200&width=300",
	},
	{
		ID:             2,
		Name:           "Echeveria",
		ScientificName: "Echeveria elegans",
		Category:       CategorySucculents,
		Description:    "Suculenta em formato de roseta com folhas carnudas. Muito resistente e fácil de cuidar.",
		Image:          "/placeholder.svg?height=200&width=300",
	},
	{
		ID:             3,
		Name:           "Samambaia",
		ScientificName: "Nephrolepis exaltata",
		Category:       CategoryFerns,
		Description:    "Planta ornamental com folhas delicadas. Perfeita para ambientes úmidos e com sombra parcial.",
		Image:          "/placeholder.svg?height=200&width=300",
	},
	{
		ID:             4,
		Name:           "Violeta Africana",
		ScientificName: "Saintpaulia ionantha",
		Category:       CategoryFlowers,
		Description:    "Pequena planta com flores coloridas. Ideal para decoração de interiores e fácil manutenção.",
		Image:          "/placeholder.svg?height=200&width=300",
	},
	{
		ID:             5,
		Name:           "Cacto Barril",
		ScientificName: "Echinocactus grusonii",
		Category:       CategorySucculents,
		Description:    "Cacto esférico com espinhos dourados. Extremamente resistente à seca e de crescimento lento.",
		Image:          "/placeholder.svg?height=200&width=300",
	},
	{
		ID:             6,
		Name:           "Jiboia",
		ScientificName: "Epipremnum aureum",
		Category:       CategoryFoliage,
		Description:    "Planta trepadeira com folhas variegadas. Muito popular para decoração de interiores.",
		Image:          "/placeholder.svg?height=200&width=300",
	},
}

// Entries returns every article in display order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func Lookup(id int) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Categories lists the distinct categories in first-seen order.
func Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// CategoryLabel is the display name of a category or filter value.
func CategoryLabel(c string) string {
	switch c {
	case FilterAll:
		return "Todas"
	case FilterFavorites:
		return "Favoritas"
	case CategoryFoliage:
		return "Folhagem"
	case CategorySucculents:
		return "Suculentas"
	case CategoryFerns:
		return "Samambaias"
	case CategoryFlowers:
		return "Flores"
	case "":
		return ""
	default:
		return strings.ToUpper(c[:1]) + c[1:]
	}
}
