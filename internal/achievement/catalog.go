// Package achievement tracks the gamified milestones of the garden: a fixed
// catalog of definitions, the persisted unlock/progress state, and the
// observers that are told when something unlocks.
package achievement

// Kind distinguishes plain unlockable achievements from bounded counters.
type Kind int

const (
	KindBoolean Kind = iota
	KindProgress
)

const (
	FirstPlant       = "primeiro-plantio"
	DedicatedWaterer = "regador-dedicado"
	Collector        = "colecionador-verde"
	Organizer        = "organizador"
	PlantLover       = "amante-plantas"
	Punctual         = "pontual"
	ExpertGardener   = "jardineiro-expert"
	PerfectStreak    = "sequencia-perfeita"
	MasterGardener   = "mestre-jardineiro"
	Explorer         = "explorador-verde"
	Veteran          = "veterano"
	GreenThumb       = "mao-verde"
)

// Definition is one static catalog entry.
type Definition struct {
	ID          string
	Title       string
	Description string
	Kind        Kind
	Total       int    // only for KindProgress
	Unit        string // progress label, e.g. "dias"
}

var catalog = []Definition{
	{ID: FirstPlant, Title: "Primeiro Plantio", Description: "Adicione sua primeira planta ao jardim"},
	{ID: DedicatedWaterer, Title: "Regador Dedicado", Description: "Regue suas plantas por 7 dias consecutivos"},
	{ID: Collector, Title: "Colecionador Verde", Description: "Tenha 5 plantas diferentes em seu jardim"},
	{ID: Organizer, Title: "Organizador", Description: "Mantenha todas as plantas em dia por uma semana"},
	{ID: PlantLover, Title: "Amante das Plantas", Description: "Favorite 3 plantas na enciclopédia"},
	{ID: Punctual, Title: "Pontual", Description: "Regue uma planta no dia exato recomendado"},
	{ID: ExpertGardener, Title: "Jardineiro Expert", Description: "Mantenha 10 plantas saudáveis simultaneamente", Kind: KindProgress, Total: 10, Unit: "plantas"},
	{ID: PerfectStreak, Title: "Sequência Perfeita", Description: "Regue suas plantas por 30 dias consecutivos", Kind: KindProgress, Total: 30, Unit: "dias"},
	{ID: MasterGardener, Title: "Mestre Jardineiro", Description: "Desbloqueie todas as outras conquistas"},
	{ID: Explorer, Title: "Explorador Verde", Description: "Visualize detalhes de 20 plantas na enciclopédia", Kind: KindProgress, Total: 20, Unit: "plantas"},
	{ID: Veteran, Title: "Veterano", Description: "Use o app por 100 dias consecutivos", Kind: KindProgress, Total: 100, Unit: "dias"},
	{ID: GreenThumb, Title: "Mão Verde", Description: "Regue suas plantas por 180 dias consecutivos", Kind: KindProgress, Total: 180, Unit: "dias"},
}

var byID = func() map[string]Definition {
	m := make(map[string]Definition, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// Catalog returns a copy of every definition in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id string) (Definition, bool) {
	d, ok := byID[id]
	return d, ok
}
